package session

import (
	"fmt"
	"math"

	"github.com/docforge-io/docforge/internal/doc"
	"github.com/docforge-io/docforge/internal/locate"
)

// AddPageBreak appends a page break to the document body.
func (p *Processor) AddPageBreak() Result {
	return p.run("add_page_break", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		d.AddPageBreak()
		return nil, nil, nil
	})
}

// MarginArgs are the arguments of SetPageMargins, in centimeters. Nil
// fields keep their current value.
type MarginArgs struct {
	Top    *float64 `json:"top,omitempty"`
	Bottom *float64 `json:"bottom,omitempty"`
	Left   *float64 `json:"left,omitempty"`
	Right  *float64 `json:"right,omitempty"`
}

// SetPageMargins updates the page margins. Values are given in centimeters
// and stored in twips.
func (p *Processor) SetPageMargins(args MarginArgs) Result {
	return p.run("set_page_margins", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		set := func(dst *int, cm *float64, name string) error {
			if cm == nil {
				return nil
			}
			if *cm < 0 {
				return fmt.Errorf("%w: %s margin %.2fcm", doc.ErrOutOfRange, name, *cm)
			}
			*dst = int(math.Round(*cm * doc.TwipsPerCm))
			return nil
		}
		if err := set(&d.Margins.Top, args.Top, "top"); err != nil {
			return nil, nil, err
		}
		if err := set(&d.Margins.Bottom, args.Bottom, "bottom"); err != nil {
			return nil, nil, err
		}
		if err := set(&d.Margins.Left, args.Left, "left"); err != nil {
			return nil, nil, err
		}
		if err := set(&d.Margins.Right, args.Right, "right"); err != nil {
			return nil, nil, err
		}
		return d.Margins, nil, nil
	})
}
