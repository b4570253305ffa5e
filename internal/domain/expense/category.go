package expense

// Category is an RRA expense classification
type Category string

const (
	CategoryCostOfSales        Category = "COST_OF_SALES"
	CategorySalaries           Category = "SALARIES"
	CategoryRent               Category = "RENT"
	CategoryUtilities          Category = "UTILITIES"
	CategoryTransport          Category = "TRANSPORT"
	CategoryProfessionalFees   Category = "PROFESSIONAL_FEES"
	CategoryRepairsMaintenance Category = "REPAIRS_MAINTENANCE"
	CategoryInsurance          Category = "INSURANCE"
	CategoryInterest           Category = "INTEREST"
	CategoryTraining           Category = "TRAINING"
	CategoryMarketing          Category = "MARKETING"
	CategoryEntertainment      Category = "ENTERTAINMENT"
	CategoryDonations          Category = "DONATIONS"
	CategoryFinesPenalties     Category = "FINES_PENALTIES"
	CategoryOther              Category = "OTHER"
)

// CategoryInfo describes a category for listings
type CategoryInfo struct {
	Code       Category `json:"code"`
	Label      string   `json:"label"`
	Deductible bool     `json:"deductible"`
}

var categories = []CategoryInfo{
	{CategoryCostOfSales, "Cost of sales", true},
	{CategorySalaries, "Salaries and wages", true},
	{CategoryRent, "Rent", true},
	{CategoryUtilities, "Utilities", true},
	{CategoryTransport, "Transport and travel", true},
	{CategoryProfessionalFees, "Professional fees", true},
	{CategoryRepairsMaintenance, "Repairs and maintenance", true},
	{CategoryInsurance, "Insurance", true},
	{CategoryInterest, "Interest", true},
	{CategoryTraining, "Training", true},
	{CategoryMarketing, "Marketing and advertising", true},
	{CategoryEntertainment, "Entertainment", false},
	{CategoryDonations, "Donations", false},
	{CategoryFinesPenalties, "Fines and penalties", false},
	{CategoryOther, "Other", true},
}

var categoryIndex = func() map[Category]CategoryInfo {
	m := make(map[Category]CategoryInfo, len(categories))
	for _, c := range categories {
		m[c.Code] = c
	}
	return m
}()

// Categories returns every category in display order
func Categories() []CategoryInfo {
	return append([]CategoryInfo(nil), categories...)
}

// IsValid checks if the category is a known value
func (c Category) IsValid() bool {
	_, ok := categoryIndex[c]
	return ok
}

// IsDeductible reports whether the category reduces taxable income
func (c Category) IsDeductible() bool {
	return categoryIndex[c].Deductible
}

// DeductibleCategories returns the codes that reduce taxable income
func DeductibleCategories() []Category {
	var out []Category
	for _, c := range categories {
		if c.Deductible {
			out = append(out, c.Code)
		}
	}
	return out
}
