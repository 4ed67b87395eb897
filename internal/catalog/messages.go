package catalog

import "fmt"

// Failure notices shown after a backend call fails.
const (
	RefreshFailed = "Failed to refresh entries from server."
	AddFailed     = "Failed to add entry."
	UpdateFailed  = "Failed to update entry."
	DeleteFailed  = "Failed to delete entry."
)

// AddedMessage confirms a created entry.
func AddedMessage(title string) string {
	return fmt.Sprintf("%q added successfully!", title)
}

// UpdatedMessage confirms an edited entry.
func UpdatedMessage(title string) string {
	return fmt.Sprintf("%q updated successfully!", title)
}

// DeletedMessage confirms a removed entry.
func DeletedMessage(title string) string {
	return fmt.Sprintf("%q deleted successfully.", title)
}

// DeletePrompt asks the user to confirm a deletion.
func DeletePrompt(title string) string {
	return fmt.Sprintf("Do you want to delete %q? This action cannot be undone.", title)
}
