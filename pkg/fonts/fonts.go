// Package fonts provides the parsed TrueType fonts used by raster output.
//
// The Go fonts ship inside golang.org/x/image, so previews render the same on
// every machine without system fonts. Each face is parsed once on first
// access and shared afterwards.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/cardpress/pkg/errors"
)

// Family is the name of the embedded font family.
const Family = "Go"

type parsed struct {
	once sync.Once
	ttf  []byte
	font *truetype.Font
	err  error
}

func (p *parsed) get(name string) (*truetype.Font, error) {
	p.once.Do(func() {
		p.font, p.err = truetype.Parse(p.ttf)
		if p.err != nil {
			p.err = errors.Wrap(errors.ErrCodeInternal, p.err, "parse %s font", name)
		}
	})
	return p.font, p.err
}

var (
	regular = &parsed{ttf: goregular.TTF}
	bold    = &parsed{ttf: gobold.TTF}
)

// Regular returns the regular weight.
func Regular() (*truetype.Font, error) { return regular.get("regular") }

// Bold returns the bold weight.
func Bold() (*truetype.Font, error) { return bold.get("bold") }
