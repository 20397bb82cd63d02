package core

// Classification places a category in the 50/30/20 allocation model.
// Neutral categories (savings and debt service) count toward total spend but
// toward neither the necessity nor the desire share.
type Classification int

const (
	Neutral Classification = iota
	Necessity
	Desire
)

// Expense category taxonomy. Presentation metadata (icons, colors, labels)
// is a UI concern and intentionally absent here; the engine depends only on
// the id and its classification.
const (
	CategoryHousing      = "housing"
	CategoryFood         = "food"
	CategoryTransport    = "transport"
	CategoryHealth       = "health"
	CategoryEducation    = "education"
	CategoryTaxes        = "taxes"
	CategoryChurch       = "church"
	CategoryLeisure      = "leisure"
	CategoryShopping     = "shopping"
	CategoryPersonalCare = "personal_care"
	CategorySubscription = "subscriptions"
	CategoryPets         = "pets"
	CategoryOther        = "other"
	CategoryInvestment   = "investment"
	CategoryLoan         = "loan"
	CategoryCreditCard   = "credit_card"
)

var categoryClassification = map[string]Classification{
	CategoryHousing:      Necessity,
	CategoryFood:         Necessity,
	CategoryTransport:    Necessity,
	CategoryHealth:       Necessity,
	CategoryEducation:    Necessity,
	CategoryTaxes:        Necessity,
	CategoryChurch:       Necessity,
	CategoryLeisure:      Desire,
	CategoryShopping:     Desire,
	CategoryPersonalCare: Desire,
	CategorySubscription: Desire,
	CategoryPets:         Desire,
	CategoryOther:        Desire,
	CategoryInvestment:   Neutral,
	CategoryLoan:         Neutral,
	CategoryCreditCard:   Neutral,
}

// NormalizeCategory maps an arbitrary key into the taxonomy; unrecognized
// keys land in the "other" bucket rather than failing.
func NormalizeCategory(id string) string {
	if _, ok := categoryClassification[id]; ok {
		return id
	}
	return CategoryOther
}

// Classify returns the allocation group for a category id. Unknown ids are
// normalized first, so the result is never undefined.
func Classify(id string) Classification {
	return categoryClassification[NormalizeCategory(id)]
}

// Categories returns every known category id, necessity first, then desire,
// then neutral. The order is fixed so taxonomy listings are deterministic.
func Categories() []string {
	return []string{
		CategoryHousing, CategoryFood, CategoryTransport, CategoryHealth,
		CategoryEducation, CategoryTaxes, CategoryChurch,
		CategoryLeisure, CategoryShopping, CategoryPersonalCare,
		CategorySubscription, CategoryPets, CategoryOther,
		CategoryInvestment, CategoryLoan, CategoryCreditCard,
	}
}
