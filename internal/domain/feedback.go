package domain

// Category is the coaching feedback bucket selected for a swing.
type Category string

const (
	CategoryPowerful     Category = "POWERFUL"
	CategoryMoreRotation Category = "MORE_ROTATION"
	CategoryLowRotation  Category = "LOW_ROTATION"
	CategorySlowSwing    Category = "SLOW_SWING"
	CategoryUnevenRhythm Category = "UNEVEN_RHYTHM"
)

// String returns the string representation of Category.
func (c Category) String() string {
	return string(c)
}

// IsValid checks if the category is a known value.
func (c Category) IsValid() bool {
	switch c {
	case CategoryPowerful, CategoryMoreRotation, CategoryLowRotation,
		CategorySlowSwing, CategoryUnevenRhythm:
		return true
	}
	return false
}

// FeedbackResult is the deterministic evaluation of one swing's metrics.
type FeedbackResult struct {
	Score    int      `json:"score"` // 0-100
	Category Category `json:"category"`
	Message  string   `json:"message"`
}
