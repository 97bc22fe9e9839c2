package email

import (
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SendFoodChangedEmail tells the catalog owner that a food was created,
// updated or deleted.
func (c *Client) SendFoodChangedEmail(to, action string, foodID int, foodName string) error {
	data := map[string]string{
		"Action":   action,
		"FoodID":   strconv.Itoa(foodID),
		"FoodName": foodName,
	}

	subject := fmt.Sprintf("Food %s: %s", cases.Title(language.English).String(action), foodName)

	return c.SendEmail(to, subject, TemplateFoodChanged, data)
}
