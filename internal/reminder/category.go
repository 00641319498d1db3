package reminder

// Category is a fixed preset grouping with a display icon and color.
type Category struct {
	ID    string
	Name  string
	Icon  string
	Color string
}

// DefaultIcon is shown for reminders without a preset category.
const DefaultIcon = "🔔"

// CustomCategory is offered alongside the presets for free-form reminders.
var CustomCategory = Category{ID: "custom", Name: "Custom", Icon: "➕", Color: "#999999"}

// PresetCategories lists the built-in categories in display order.
var PresetCategories = []Category{
	{ID: "gym", Name: "Gym", Icon: "🏋️", Color: "#FF6B6B"},
	{ID: "study", Name: "Study", Icon: "📚", Color: "#4ECDC4"},
	{ID: "groceries", Name: "Groceries", Icon: "🛒", Color: "#45B7D1"},
	{ID: "cooking", Name: "Cooking", Icon: "🍳", Color: "#F7DC6F"},
	{ID: "laundry", Name: "Laundry", Icon: "🧹", Color: "#BB8FCE"},
	{ID: "bills", Name: "Bills", Icon: "💳", Color: "#82E0AA"},
	{ID: "medicine", Name: "Medicine", Icon: "💊", Color: "#F1948A"},
	{ID: "water", Name: "Water", Icon: "💧", Color: "#85C1E9"},
	{ID: "sleep", Name: "Sleep", Icon: "😴", Color: "#7FB3D8"},
	{ID: "reading", Name: "Reading", Icon: "📖", Color: "#D7BDE2"},
}

// LookupCategory finds a preset category by id. The custom category is not a preset.
func LookupCategory(id string) (Category, bool) {
	for _, c := range PresetCategories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// presetReminders are seeded on first launch.
var presetReminders = []Reminder{
	{Name: "Gym", Category: "gym", Hour: 7, Minute: 0, Recurrence: RecurrenceSpecificDays, Days: []int{1, 3, 5}},
	{Name: "Study", Category: "study", Hour: 18, Minute: 0, Recurrence: RecurrenceDaily},
	{Name: "Buy Groceries", Category: "groceries", Hour: 10, Minute: 0, Recurrence: RecurrenceWeekly, Days: []int{0}},
	{Name: "Cook Meals", Category: "cooking", Hour: 12, Minute: 0, Recurrence: RecurrenceDaily},
	{Name: "Laundry", Category: "laundry", Hour: 9, Minute: 0, Recurrence: RecurrenceWeekly, Days: []int{6}},
	{Name: "Pay Bills", Category: "bills", Hour: 10, Minute: 0, Recurrence: RecurrenceMonthly, MonthDay: 1},
	{Name: "Take Medicine", Category: "medicine", Hour: 8, Minute: 0, Recurrence: RecurrenceDaily},
	{Name: "Drink Water", Category: "water", Hour: 9, Minute: 0, Recurrence: RecurrenceDaily},
	{Name: "Sleep Early", Category: "sleep", Hour: 22, Minute: 30, Recurrence: RecurrenceDaily},
	{Name: "Read", Category: "reading", Hour: 21, Minute: 0, Recurrence: RecurrenceDaily},
}

// PresetReminders returns copies of the built-in starter reminders.
func PresetReminders() []Reminder {
	out := make([]Reminder, len(presetReminders))
	for i, r := range presetReminders {
		r.Days = append([]int(nil), r.Days...)
		out[i] = r
	}
	return out
}
