package model

// Palette is the fixed set of colors clients may place. It must match the
// client-side palette exactly.
var Palette = map[string]struct{}{
	// Row 1: dark burgundy to green-teal
	"#6D001A": {}, "#BE0039": {}, "#FF4500": {}, "#FFA800": {},
	"#FFD635": {}, "#FFF8B8": {}, "#FFFFCC": {}, "#00A368": {},
	// Row 2: light green to purple-blue
	"#00CC78": {}, "#00756F": {}, "#009EAA": {}, "#00CCC0": {},
	"#2450A4": {}, "#3690EA": {}, "#51E9F4": {}, "#493AC1": {},
	// Row 3: lavender-blue to light pink
	"#6A5CFF": {}, "#811E9F": {}, "#B44AC0": {}, "#E4ABFF": {},
	"#DE107F": {}, "#FF3881": {}, "#FF99AA": {}, "#FFCCDD": {},
	// Row 4: brown to white
	"#6D482F": {}, "#9C6926": {}, "#FFB470": {}, "#000000": {},
	"#515252": {}, "#898D90": {}, "#D4D7D9": {}, "#FFFFFF": {},
}

// IsAllowedColor reports whether color is a member of the palette.
func IsAllowedColor(color string) bool {
	_, ok := Palette[color]
	return ok
}
