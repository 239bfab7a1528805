package filter

import "strings"

// Icon names a glyph the presentation layer renders for a category.
type Icon string

const (
	IconCamera     Icon = "camera"
	IconMegaphone  Icon = "megaphone"
	IconCar        Icon = "car"
	IconCoffee     Icon = "coffee"
	IconUser       Icon = "user"
	IconCreditCard Icon = "credit-card"
	IconWrench     Icon = "wrench"
	IconBag        Icon = "shopping-bag"
	IconPhone      Icon = "smartphone"
	IconTag        Icon = "tag"
)

// Glyph is a terminal-friendly rendering of the icon.
func (i Icon) Glyph() string {
	switch i {
	case IconCamera:
		return "📷"
	case IconMegaphone:
		return "📣"
	case IconCar:
		return "🚗"
	case IconCoffee:
		return "☕"
	case IconUser:
		return "👤"
	case IconCreditCard:
		return "💳"
	case IconWrench:
		return "🔧"
	case IconBag:
		return "🛍"
	case IconPhone:
		return "📱"
	}

	return "🏷"
}

// iconRules is checked in order; the first rule with a matching keyword wins.
var iconRules = []struct {
	icon     Icon
	keywords []string
}{
	{IconCamera, []string{"معدات", "كاميرا", "عدس", "equipment", "camera", "lens"}},
	{IconMegaphone, []string{"تسويق", "إعلان", "marketing", "ads"}},
	{IconCar, []string{"نقل", "مواصلات", "بنزين", "سيار", "transport", "fuel", "taxi"}},
	{IconCoffee, []string{"طعام", "أكل", "ضياف", "food", "meal"}},
	{IconUser, []string{"راتب", "رواتب", "مكافأ", "salary", "bonus"}},
	{IconCreditCard, []string{"اشتراك", "نت", "برامج", "subscription", "software"}},
	{IconWrench, []string{"صيانة", "إصلاح", "maintenance", "repair"}},
	{IconBag, []string{"ملابس", "أزياء", "clothes", "fashion"}},
	{IconPhone, []string{"جوال", "اتصال", "phone", "mobile"}},
}

// CategoryIcon classifies a free-text category.
func CategoryIcon(category string) Icon {
	c := fold(category)

	for _, rule := range iconRules {
		for _, kw := range rule.keywords {
			if strings.Contains(c, kw) {
				return rule.icon
			}
		}
	}

	return IconTag
}
