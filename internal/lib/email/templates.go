package email

// Template names an HTML file under templates/.
type Template string

const (
	// TemplateFoodChanged corresponds to templates/food_changed.html
	TemplateFoodChanged Template = "food_changed"
)
