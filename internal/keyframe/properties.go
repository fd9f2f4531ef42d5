package keyframe

// Kind tells how a property is rendered
type Kind int

const (
	// KindTransform properties are composed into a single transform value
	KindTransform Kind = iota
	// KindStyle properties become standalone declarations
	KindStyle
)

func (k Kind) String() string {
	if k == KindTransform {
		return "transform"
	}
	return "style"
}

// Spec describes how one configurable property is serialized
type Spec struct {
	Name   string
	Kind   Kind
	Prefix string
	Suffix string
}

// Properties is the fixed property table in render order
var Properties = []Spec{
	{Name: "scale", Kind: KindTransform, Prefix: "scale(", Suffix: ")"},
	{Name: "translateX", Kind: KindTransform, Prefix: "translateX(", Suffix: ")"},
	{Name: "translateY", Kind: KindTransform, Prefix: "translateY(", Suffix: ")"},
	{Name: "rotate", Kind: KindTransform, Prefix: "rotate(", Suffix: ")"},
	{Name: "opacity", Kind: KindStyle, Prefix: "opacity: ", Suffix: ";"},
	{Name: "backgroundColor", Kind: KindStyle, Prefix: "background-color: ", Suffix: ";"},
	{Name: "width", Kind: KindStyle, Prefix: "width: ", Suffix: ";"},
	{Name: "height", Kind: KindStyle, Prefix: "height: ", Suffix: ";"},
	{Name: "boxShadow", Kind: KindStyle, Prefix: "box-shadow: ", Suffix: ";"},
	{Name: "textShadow", Kind: KindStyle, Prefix: "text-shadow: ", Suffix: ";"},
	{Name: "outline", Kind: KindStyle, Prefix: "outline: ", Suffix: ";"},
	{Name: "backgroundPosition", Kind: KindStyle, Prefix: "background-position: ", Suffix: ";"},
}

var propertyIndex = func() map[string]int {
	m := make(map[string]int, len(Properties))
	for i, p := range Properties {
		m[p.Name] = i
	}
	return m
}()

// Lookup returns the table entry for a property name
func Lookup(name string) (Spec, bool) {
	i, ok := propertyIndex[name]
	if !ok {
		return Spec{}, false
	}
	return Properties[i], true
}
