package constants

// Frequency represents how often a habit recurs
type Frequency string

// Category represents the life area a habit belongs to
type Category string

// DayToken is a locale-independent weekday identifier ("mon".."sun")
type DayToken string

// TimeBucket is a coarse time-of-day band used by the analytics engine
type TimeBucket string

const (
	AppName            = "stride"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/stride/stride.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Frequency constants
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyCustom  Frequency = "custom"

	// MonthDayLast is the custom-day token matching the final day of any
	// month, regardless of its length.
	MonthDayLast = "last"

	// Time bucket constants
	BucketMorning   TimeBucket = "morning"
	BucketAfternoon TimeBucket = "afternoon"
	BucketEvening   TimeBucket = "evening"
	BucketNight     TimeBucket = "night"

	// Category constants
	CategoryHealth       Category = "health"
	CategoryFitness      Category = "fitness"
	CategoryMindfulness  Category = "mindfulness"
	CategoryProductivity Category = "productivity"
	CategoryLearning     Category = "learning"
	CategorySocial       Category = "social"
	CategoryFinance      Category = "finance"
	CategoryOther        Category = "other"

	DefaultHabitIcon      = "🎯"
	DefaultTopStreakLimit = 3
)

// Declaration order below is load-bearing: ties in "best day" and "best
// time" aggregations resolve to the earliest declared token.
var (
	DayTokens = []DayToken{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

	TimeBuckets = []TimeBucket{BucketMorning, BucketAfternoon, BucketEvening, BucketNight}

	Categories = []Category{
		CategoryHealth, CategoryFitness, CategoryMindfulness, CategoryProductivity,
		CategoryLearning, CategorySocial, CategoryFinance, CategoryOther,
	}
)
