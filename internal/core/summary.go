package core

// Summary holds the statistics computed over a filtered set of transactions.
type Summary struct {
	TotalIncome      Money
	TotalExpense     Money
	NetSavings       Money
	AvgWeeklyExpense Money
}

// DescriptionTotal is an expense amount aggregated by description.
type DescriptionTotal struct {
	Description Description
	Amount      Money
}

// ChartPoint is one bar of the income/expense chart: the sum of a category
// on a given day.
type ChartPoint struct {
	Date     Date
	Category Category
	Amount   Money
}
