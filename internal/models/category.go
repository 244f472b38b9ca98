package models

// DefaultCategories are offered by the add-transaction form. Categories stay
// free text; these are suggestions grouped by the type they usually go with.
var DefaultCategories = map[TransactionType][]string{
	TransactionTypeIncome:  {"Salary", "Extra Income"},
	TransactionTypeExpense: {"Vegetables", "Food", "Petrol", "Electricity Bill", "Gas", "Travel", "Shopping", "Rent", "Medical", "Others"},
	TransactionTypeLoan:    {"Interest", "Society Deposit", "Society Loan"},
	TransactionTypeEMI:     {"EMI"},
}
