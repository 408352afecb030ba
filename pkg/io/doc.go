// Package io reads card input files and writes card output files.
//
// # Input Format
//
// Card input is a JSON array of objects, one per card:
//
//	[
//	  {
//	    "name": "Dra. Ana Souza",
//	    "professional": "Cardiologista",
//	    "crmNumber": "123456",
//	    "crmRegion": "BA",
//	    "phone": "(71) 3333-4444",
//	    "email": "ana@clinica.com.br",
//	    "website": "clinica.com.br",
//	    "logoPath": "logo.png"
//	  }
//	]
//
// [ReadRecords] and [ImportRecords] only decode: they return the raw value
// with numbers kept as [encoding/json.Number] so that cards.ValidateAll can
// apply its field rules and report every failing card at once. Malformed
// JSON fails with an INVALID_INPUT error.
//
// # Output
//
// [WriteRecords] and [ExportRecords] write records back in the same format;
// the template command uses them for its sample file. [WriteAtomic] writes
// any output through a temporary file in the target directory and renames
// it into place, so a failed render never leaves a partial document behind.
package io
