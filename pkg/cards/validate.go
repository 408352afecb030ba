package cards

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/cardpress/pkg/errors"
)

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern     = regexp.MustCompile(`^\(\d{2}\)\s\d{4,5}-\d{4}$`)
	crmNumberPattern = regexp.MustCompile(`^\d+$`)
	crmRegionPattern = regexp.MustCompile(`^[A-Z]{2}$`)
)

// LogoExtensions lists the accepted logo file extensions.
var LogoExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".svg"}

// field describes one optional input key and where it lands on a Record.
type field struct {
	key     string
	aliases []string
	set     func(r *Record, v string)
}

var optionalFields = []field{
	{key: "title", set: func(r *Record, v string) { r.Title = v }},
	{key: "company", set: func(r *Record, v string) { r.Company = v }},
	{key: "professional", set: func(r *Record, v string) { r.Professional = v }},
	{key: "crmNumber", aliases: []string{"crm"}, set: func(r *Record, v string) { r.CRMNumber = v }},
	{key: "crmRegion", aliases: []string{"crm_uf"}, set: func(r *Record, v string) { r.CRMRegion = v }},
	{key: "phone", set: func(r *Record, v string) { r.Phone = v }},
	{key: "email", set: func(r *Record, v string) { r.Email = v }},
	{key: "website", set: func(r *Record, v string) { r.Website = v }},
	{key: "logoPath", aliases: []string{"logo"}, set: func(r *Record, v string) { r.LogoPath = v }},
}

// Outcome is the validation result for one item of a batch.
type Outcome struct {
	Index  int           // 1-based position in the batch
	Record Record        // zero when Issue is set
	Issue  *errors.Issue // nil when the item is valid
}

// OK reports whether the item validated.
func (o Outcome) OK() bool { return o.Issue == nil }

// Validate normalizes one raw record (usually a map decoded from JSON) and
// checks it against the field rules. It stops at the first violated rule and
// returns a *errors.ValidationError holding that single issue.
func Validate(raw any) (Record, error) {
	rec, issue := check(1, raw)
	if issue != nil {
		return Record{}, errors.NewValidationError(*issue)
	}
	return rec, nil
}

// ValidateAll validates every item of a batch. Either every item validates
// and the records come back in input order, or the returned
// *errors.ValidationError lists one issue per failing item and no records
// are returned. A raw value that is not a list fails with INVALID_INPUT.
// An empty list is valid and yields no records.
func ValidateAll(raw any) ([]Record, error) {
	items, err := asList(raw)
	if err != nil {
		return nil, err
	}

	verr := errors.NewValidationError()
	records := make([]Record, 0, len(items))
	for _, o := range Report(items) {
		if o.Issue != nil {
			verr.Add(*o.Issue)
			continue
		}
		records = append(records, o.Record)
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}
	return records, nil
}

// Report validates each item independently and returns one Outcome per
// item, in order. It never fails; callers that want a per-record pass/fail
// view use it instead of ValidateAll.
func Report(items []any) []Outcome {
	out := make([]Outcome, len(items))
	for i, item := range items {
		rec, issue := check(i+1, item)
		out[i] = Outcome{Index: i + 1, Record: rec, Issue: issue}
	}
	return out
}

func asList(raw any) ([]any, error) {
	switch v := raw.(type) {
	case []any:
		return v, nil
	case []map[string]any:
		items := make([]any, len(v))
		for i, m := range v {
			items[i] = m
		}
		return items, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "cards must be a JSON array of objects")
	}
}

func check(index int, raw any) (Record, *errors.Issue) {
	fail := func(field, format string, args ...any) (Record, *errors.Issue) {
		return Record{}, &errors.Issue{Index: index, Field: field, Reason: fmt.Sprintf(format, args...)}
	}

	m, ok := raw.(map[string]any)
	if !ok {
		return fail("", "card data must be an object")
	}

	name, ok := m["name"].(string)
	name = clean(name)
	if !ok || name == "" {
		return fail("name", "required field 'name' is missing or empty")
	}
	rec := Record{Name: name}

	for _, f := range optionalFields {
		v, present := lookup(m, f)
		if !present {
			continue
		}
		s, err := stringValue(f.key, v)
		if err != nil {
			return fail(f.key, "%s", err.Error())
		}
		f.set(&rec, clean(s))
	}

	if rec.Email != "" && !emailPattern.MatchString(rec.Email) {
		return fail("email", "invalid email '%s'", rec.Email)
	}
	if rec.Website != "" && !validWebsite(rec.Website) {
		return fail("website", "invalid website '%s'", rec.Website)
	}
	if rec.Phone != "" && !phonePattern.MatchString(rec.Phone) {
		return fail("phone", "invalid phone '%s', use the format (XX) XXXXX-XXXX", rec.Phone)
	}
	if rec.LogoPath != "" && !hasLogoExtension(rec.LogoPath) {
		return fail("logoPath", "logo must have a valid extension (%s)", strings.Join(LogoExtensions, ", "))
	}
	if (rec.CRMNumber == "") != (rec.CRMRegion == "") {
		return fail("crmNumber", "crmNumber and crmRegion must be provided together")
	}
	if rec.CRMNumber != "" && !crmNumberPattern.MatchString(rec.CRMNumber) {
		return fail("crmNumber", "crmNumber must contain only digits")
	}
	if rec.CRMRegion != "" && !crmRegionPattern.MatchString(rec.CRMRegion) {
		return fail("crmRegion", "crmRegion must be two uppercase letters (e.g. BA, SP, RJ)")
	}
	return rec, nil
}

// lookup returns the value of f under its canonical key, falling back to its
// aliases. JSON null counts as absent.
func lookup(m map[string]any, f field) (any, bool) {
	if v, ok := m[f.key]; ok && v != nil {
		return v, true
	}
	for _, a := range f.aliases {
		if v, ok := m[a]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// stringValue accepts strings everywhere and JSON numbers for crmNumber.
func stringValue(key string, v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		if key == "crmNumber" {
			return x.String(), nil
		}
	case float64:
		if key == "crmNumber" {
			return strconv.FormatFloat(x, 'f', -1, 64), nil
		}
	}
	return "", fmt.Errorf("field '%s' must be a string", key)
}

// clean trims surrounding whitespace and normalizes to NFC so composed and
// decomposed accents compare and render alike.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func validWebsite(site string) bool {
	u, err := url.Parse(withScheme(site))
	if err != nil {
		return false
	}
	return u.Host != "" && !strings.ContainsAny(u.Host, " \t")
}

func hasLogoExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range LogoExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
