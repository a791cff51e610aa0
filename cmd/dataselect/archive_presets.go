package main

// Preset archive layout templates, ported from original_source/src/
// dsarchive.h's CHANLAYOUT/QCHANLAYOUT/CDAYLAYOUT/SDAYLAYOUT/BUDLAYOUT/
// CSSLAYOUT macros, plus VCHAN/SDS per spec.md §6's table.
const (
	chanLayout  = "%n.%s.%l.%c"
	vchanLayout = "%n.%s.%l.%c.%v"
	qchanLayout = "%n.%s.%l.%c.%q"
	cdayLayout  = "%n.%s.%l.%c.%Y:%j:#H:#M:#S"
	sdayLayout  = "%n.%s.%Y:%j"
	budLayout   = "%n/%s/%s.%n.%l.%c.%Y.%j"
	sdsLayout   = "%Y/%n/%s/%c.D/%n.%s.%l.%c.D.%Y.%j"
	cssLayout   = "%Y/%j/%s.%c.%Y:%j:#H:#M:#S"
)

// presetTemplate joins a preset's base directory with its layout, the way
// addarchive() prefixes the caller-supplied directory in dataselect.c.
func presetTemplate(dir, layout string) string {
	if dir == "" {
		return layout
	}
	return dir + "/" + layout
}
