package mapstate

import "strings"

// Category tags a POI. The set is closed; unknown tags become CategoryOther.
type Category int

const (
	CategoryOther Category = iota
	CategoryCity
	CategoryLandmark
	CategoryDungeon
	CategoryShop
	CategoryQuest
	CategoryResource
	categoryCount
)

type CategoryStyle struct {
	Name  string
	Color string
	Icon  rune
}

var categoryStyles = [categoryCount]CategoryStyle{
	CategoryOther:    {Name: "other", Color: "#9CA3AF", Icon: '•'},
	CategoryCity:     {Name: "city", Color: "#60A5FA", Icon: '■'},
	CategoryLandmark: {Name: "landmark", Color: "#FBBF24", Icon: '▲'},
	CategoryDungeon:  {Name: "dungeon", Color: "#F87171", Icon: '☠'},
	CategoryShop:     {Name: "shop", Color: "#34D399", Icon: '$'},
	CategoryQuest:    {Name: "quest", Color: "#C084FC", Icon: '!'},
	CategoryResource: {Name: "resource", Color: "#A3E635", Icon: '◆'},
}

func (c Category) Style() CategoryStyle {
	if c < 0 || c >= categoryCount {
		return categoryStyles[CategoryOther]
	}
	return categoryStyles[c]
}

func (c Category) String() string { return c.Style().Name }

// Categories lists every category in declaration order.
func Categories() []Category {
	out := make([]Category, 0, categoryCount)
	for c := Category(0); c < categoryCount; c++ {
		out = append(out, c)
	}
	return out
}

// ParseCategory maps a free-form tag onto the closed set.
func ParseCategory(s string) Category {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, st := range categoryStyles {
		if st.Name == s {
			return Category(i)
		}
	}
	switch s {
	case "town", "village", "settlement":
		return CategoryCity
	case "poi", "monument", "sight":
		return CategoryLandmark
	case "cave", "ruin", "ruins":
		return CategoryDungeon
	case "store", "merchant", "vendor":
		return CategoryShop
	case "mine", "ore", "herb":
		return CategoryResource
	}
	return CategoryOther
}

// UnmarshalText lets YAML/JSON decoders read category tags directly.
func (c *Category) UnmarshalText(b []byte) error {
	*c = ParseCategory(string(b))
	return nil
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
