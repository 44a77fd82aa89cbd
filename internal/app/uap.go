package app

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteUAP prints the dispatch table of category as aligned columns
func (app *Application) WriteUAP(w io.Writer, category uint8) error {
	codec, ok := app.registry.Codec(category)
	if !ok {
		return fmt.Errorf("unsupported category %d, have %v", category, app.registry.Categories())
	}
	uap := codec.UAP()

	fmt.Fprintf(w, "CAT%03d edition %s, %d FSPEC octets\n", uap.Category(), uap.Edition(), uap.MaxFspecOctets())
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FRN\tOCTET\tBIT\tITEM\tFORMAT\tNAME")
	for _, e := range uap.Entries() {
		octet, bit := e.Ordinal().Position()
		id, format := e.ID, "-"
		if e.Spare() {
			id = "-"
		} else {
			format = e.Format.String()
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\t%s\n", e.FRN, octet, bit, id, format, e.Name)
	}
	return tw.Flush()
}
