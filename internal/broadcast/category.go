package broadcast

// Category is the organizational tag assigned to every broadcast. Assignment
// is total: classification always yields exactly one category, with
// CategoryUncategorized as the fallback.
type Category string

const (
	CategoryFirstService    Category = "first-service"
	CategorySundaySchool    Category = "sunday-school"
	CategorySecondService   Category = "second-service"
	CategorySundayNight     Category = "sunday-night"
	CategoryWednesdayNight  Category = "wednesday-night"
	CategoryHoliday         Category = "holiday"
	CategoryMemorial        Category = "memorial"
	CategoryWedding         Category = "wedding"
	CategoryChristmasAnnual Category = "christmas-annual"
	CategorySpecialService  Category = "special-service"
	CategoryYouth           Category = "youth"
	CategoryUncategorized   Category = "uncategorized"
)

// Display returns the human-facing label used in notifications and summaries.
func (c Category) Display() string {
	switch c {
	case CategoryFirstService:
		return "1st Service"
	case CategorySundaySchool:
		return "Sunday School"
	case CategorySecondService:
		return "2nd Service"
	case CategorySundayNight:
		return "Sunday Night"
	case CategoryWednesdayNight:
		return "Wednesday Night"
	case CategoryHoliday:
		return "Holiday Service"
	case CategoryMemorial:
		return "Memorial Service"
	case CategoryWedding:
		return "Wedding"
	case CategoryChristmasAnnual:
		return "Christmas At Carbondale"
	case CategorySpecialService:
		return "Special Service"
	case CategoryYouth:
		return "Youth Service"
	case CategoryUncategorized:
		return "Uncategorized"
	default:
		return string(c)
	}
}

// Class is the full classification outcome. Label is populated only for
// CategoryHoliday, carrying the matched holiday's display label.
type Class struct {
	Category Category
	Label    string
}

// Skip reports whether the broadcast is excluded from download entirely.
func (c Class) Skip() bool {
	return c.Category == CategoryYouth
}
