// Package ledger defines the shape of one month of financial data: the
// categories, their accounts and the typed update path used to edit them.
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownVariant       = errors.New("unknown ledger variant")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrUnknownField         = errors.New("unknown field")
	ErrCategoryNotInVariant = errors.New("category not available in this ledger variant")
)

// Variant selects between the two ledger shapes. A simple ledger records
// monthly income and automatic deductions; a payroll ledger records one
// biweekly pay stub plus additional income.
type Variant string

const (
	VariantSimple  Variant = "simple"
	VariantPayroll Variant = "payroll"
)

func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantSimple, VariantPayroll:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

type Category string

const (
	CategoryIncome              Category = "income"
	CategoryPayroll             Category = "payroll"
	CategoryAdditionalIncome    Category = "additionalIncome"
	CategoryAutomaticDeductions Category = "automaticDeductions"
	CategoryInvestments         Category = "investments"
	CategorySavings             Category = "savings"
	CategoryVenmo               Category = "venmo"
	CategoryCreditCards         Category = "creditCards"
	CategoryEssentials          Category = "essentials"
	CategoryDiscretionary       Category = "discretionary"
)

var categoryLabels = map[Category]string{
	CategoryIncome:              "Income",
	CategoryPayroll:             "Payroll (Biweekly)",
	CategoryAdditionalIncome:    "Additional Income",
	CategoryAutomaticDeductions: "Automatic Deductions",
	CategoryInvestments:         "Investments",
	CategorySavings:             "Savings",
	CategoryVenmo:               "Venmo",
	CategoryCreditCards:         "Credit Cards",
	CategoryEssentials:          "Essential Expenses",
	CategoryDiscretionary:       "Discretionary",
}

func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

var outflowCategories = []Category{
	CategoryInvestments,
	CategorySavings,
	CategoryVenmo,
	CategoryCreditCards,
	CategoryEssentials,
	CategoryDiscretionary,
}

// Categories lists the categories active for a variant in display order.
func Categories(v Variant) []Category {
	var head []Category
	if v == VariantPayroll {
		head = []Category{CategoryPayroll, CategoryAdditionalIncome}
	} else {
		head = []Category{CategoryIncome, CategoryAutomaticDeductions}
	}
	return append(head, outflowCategories...)
}

// ParseCategory resolves a category identifier and checks it belongs to v.
func ParseCategory(v Variant, s string) (Category, error) {
	c := Category(s)
	if _, ok := categoryLabels[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	for _, active := range Categories(v) {
		if active == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s ledger", ErrCategoryNotInVariant, c, v)
}

// Payroll field groups.
const (
	GroupGross  = "gross"
	GroupTax    = "tax"
	GroupPretax = "pretax"
	GroupOther  = "other"
)

// Entry is a read-only view of one account line.
type Entry struct {
	Key         string
	Label       string
	Group       string
	Amount      decimal.Decimal
	Description string
}

type field struct {
	key   string
	label string
	group string
	value *decimal.Decimal
}

type accounts interface {
	fields() []field
}

type Income struct {
	PrimarySalary  decimal.Decimal `json:"primarySalary"`
	BusinessIncome decimal.Decimal `json:"businessIncome"`
	OtherIncome    decimal.Decimal `json:"otherIncome"`
}

func (a *Income) fields() []field {
	return []field{
		{key: "primarySalary", label: "Primary Salary", value: &a.PrimarySalary},
		{key: "businessIncome", label: "Business Income", value: &a.BusinessIncome},
		{key: "otherIncome", label: "Other Income", value: &a.OtherIncome},
	}
}

// Payroll holds one biweekly pay stub.
type Payroll struct {
	GrossPay decimal.Decimal `json:"grossPay"`

	FederalWithholding  decimal.Decimal `json:"federalWithholding"`
	StateTaxCA          decimal.Decimal `json:"stateTaxCA"`
	OASDISocialSecurity decimal.Decimal `json:"oasdiSocialSecurity"`
	Medicare            decimal.Decimal `json:"medicare"`
	CASDI               decimal.Decimal `json:"caSDI"`

	Contribution401k    decimal.Decimal `json:"contribution401k"`
	HSAContribution     decimal.Decimal `json:"hsaContribution"`
	HealthInsurance     decimal.Decimal `json:"healthInsurance"`
	LifeInsurance       decimal.Decimal `json:"lifeInsurance"`
	DisabilityInsurance decimal.Decimal `json:"disabilityInsurance"`
	ParkingTransit      decimal.Decimal `json:"parkingTransit"`
	DependentCareFSA    decimal.Decimal `json:"dependentCareFSA"`
	OtherPretax         decimal.Decimal `json:"otherPretax"`

	GeneralDeductions         decimal.Decimal `json:"generalDeductions"`
	EmployeePostTaxDeductions decimal.Decimal `json:"employeePostTaxDeductions"`
}

func (a *Payroll) fields() []field {
	return []field{
		{key: "grossPay", label: "Gross Pay", group: GroupGross, value: &a.GrossPay},

		{key: "federalWithholding", label: "Federal Withholding", group: GroupTax, value: &a.FederalWithholding},
		{key: "stateTaxCA", label: "State Tax (CA)", group: GroupTax, value: &a.StateTaxCA},
		{key: "oasdiSocialSecurity", label: "OASDI / Social Security", group: GroupTax, value: &a.OASDISocialSecurity},
		{key: "medicare", label: "Medicare", group: GroupTax, value: &a.Medicare},
		{key: "caSDI", label: "CA SDI", group: GroupTax, value: &a.CASDI},

		{key: "contribution401k", label: "401(k) Contribution", group: GroupPretax, value: &a.Contribution401k},
		{key: "hsaContribution", label: "HSA Contribution", group: GroupPretax, value: &a.HSAContribution},
		{key: "healthInsurance", label: "Health Insurance", group: GroupPretax, value: &a.HealthInsurance},
		{key: "lifeInsurance", label: "Life Insurance", group: GroupPretax, value: &a.LifeInsurance},
		{key: "disabilityInsurance", label: "Disability Insurance", group: GroupPretax, value: &a.DisabilityInsurance},
		{key: "parkingTransit", label: "Parking / Transit", group: GroupPretax, value: &a.ParkingTransit},
		{key: "dependentCareFSA", label: "Dependent Care FSA", group: GroupPretax, value: &a.DependentCareFSA},
		{key: "otherPretax", label: "Other Pre-tax", group: GroupPretax, value: &a.OtherPretax},

		{key: "generalDeductions", label: "General Deductions", group: GroupOther, value: &a.GeneralDeductions},
		{key: "employeePostTaxDeductions", label: "Employee Post-tax Deductions", group: GroupOther, value: &a.EmployeePostTaxDeductions},
	}
}

type AdditionalIncome struct {
	BusinessIncome  decimal.Decimal `json:"businessIncome"`
	FreelanceIncome decimal.Decimal `json:"freelanceIncome"`
	OtherIncome     decimal.Decimal `json:"otherIncome"`
}

func (a *AdditionalIncome) fields() []field {
	return []field{
		{key: "businessIncome", label: "Business Income", value: &a.BusinessIncome},
		{key: "freelanceIncome", label: "Freelance Income", value: &a.FreelanceIncome},
		{key: "otherIncome", label: "Other Income", value: &a.OtherIncome},
	}
}

type Investments struct {
	Fidelity      decimal.Decimal `json:"fidelity"`
	Vanguard      decimal.Decimal `json:"vanguard"`
	SchwabRothIRA decimal.Decimal `json:"schwab_roth_ira"`
	SwanCrypto    decimal.Decimal `json:"swan_crypto"`
	RiverCrypto   decimal.Decimal `json:"river_crypto"`
}

func (a *Investments) fields() []field {
	return []field{
		{key: "fidelity", label: "Fidelity", value: &a.Fidelity},
		{key: "vanguard", label: "Vanguard", value: &a.Vanguard},
		{key: "schwab_roth_ira", label: "Schwab Roth IRA", value: &a.SchwabRothIRA},
		{key: "swan_crypto", label: "Swan (Crypto)", value: &a.SwanCrypto},
		{key: "river_crypto", label: "River (Crypto)", value: &a.RiverCrypto},
	}
}

type Savings struct {
	MarcusHYSAEmergency   decimal.Decimal `json:"marcus_hysa_emergency"`
	ChaseBusinessChecking decimal.Decimal `json:"chase_business_checking"`
}

func (a *Savings) fields() []field {
	return []field{
		{key: "marcus_hysa_emergency", label: "Marcus HYSA (Emergency)", value: &a.MarcusHYSAEmergency},
		{key: "chase_business_checking", label: "Chase Business Checking", value: &a.ChaseBusinessChecking},
	}
}

// Venmo entries are signed: positive when money comes in, negative when it
// goes out.
type Venmo struct {
	Cashout  decimal.Decimal `json:"venmo_cashout"`
	Payments decimal.Decimal `json:"venmo_payments"`
	Received decimal.Decimal `json:"venmo_received"`
}

func (a *Venmo) fields() []field {
	return []field{
		{key: "venmo_cashout", label: "Cash Out", value: &a.Cashout},
		{key: "venmo_payments", label: "Payments", value: &a.Payments},
		{key: "venmo_received", label: "Received", value: &a.Received},
	}
}

type CreditCards struct {
	Discover      decimal.Decimal `json:"discover"`
	ChaseSapphire decimal.Decimal `json:"chase_sapphire"`
	X1            decimal.Decimal `json:"x1"`
	WellsFargo    decimal.Decimal `json:"wells_fargo"`
}

func (a *CreditCards) fields() []field {
	return []field{
		{key: "discover", label: "Discover", value: &a.Discover},
		{key: "chase_sapphire", label: "Chase Sapphire", value: &a.ChaseSapphire},
		{key: "x1", label: "X1", value: &a.X1},
		{key: "wells_fargo", label: "Wells Fargo", value: &a.WellsFargo},
	}
}

type Essentials struct {
	RentMortgage   decimal.Decimal `json:"rent_mortgage"`
	Utilities      decimal.Decimal `json:"utilities"`
	Insurance      decimal.Decimal `json:"insurance"`
	Phone          decimal.Decimal `json:"phone"`
	Groceries      decimal.Decimal `json:"groceries"`
	Transportation decimal.Decimal `json:"transportation"`
}

func (a *Essentials) fields() []field {
	return []field{
		{key: "rent_mortgage", label: "Rent / Mortgage", value: &a.RentMortgage},
		{key: "utilities", label: "Utilities", value: &a.Utilities},
		{key: "insurance", label: "Insurance", value: &a.Insurance},
		{key: "phone", label: "Phone", value: &a.Phone},
		{key: "groceries", label: "Groceries", value: &a.Groceries},
		{key: "transportation", label: "Transportation", value: &a.Transportation},
	}
}

type Discretionary struct {
	DiningOut     decimal.Decimal `json:"dining_out"`
	Entertainment decimal.Decimal `json:"entertainment"`
	Shopping      decimal.Decimal `json:"shopping"`
	Subscriptions decimal.Decimal `json:"subscriptions"`
	Travel        decimal.Decimal `json:"travel"`
	Other         decimal.Decimal `json:"other"`
}

func (a *Discretionary) fields() []field {
	return []field{
		{key: "dining_out", label: "Dining Out", value: &a.DiningOut},
		{key: "entertainment", label: "Entertainment", value: &a.Entertainment},
		{key: "shopping", label: "Shopping", value: &a.Shopping},
		{key: "subscriptions", label: "Subscriptions", value: &a.Subscriptions},
		{key: "travel", label: "Travel", value: &a.Travel},
		{key: "other", label: "Other", value: &a.Other},
	}
}

// MonthlyLedger is one month of entries. Income and AutomaticDeductions are
// populated for simple ledgers, Payroll and AdditionalIncome for payroll
// ledgers; the outflow categories are common to both.
type MonthlyLedger struct {
	Variant Variant `json:"variant"`

	Income              *Income    `json:"income,omitempty"`
	AutomaticDeductions Deductions `json:"automaticDeductions,omitempty"`

	Payroll          *Payroll          `json:"payroll,omitempty"`
	AdditionalIncome *AdditionalIncome `json:"additionalIncome,omitempty"`

	Investments   Investments   `json:"investments"`
	Savings       Savings       `json:"savings"`
	Venmo         Venmo         `json:"venmo"`
	CreditCards   CreditCards   `json:"creditCards"`
	Essentials    Essentials    `json:"essentials"`
	Discretionary Discretionary `json:"discretionary"`
}

func (l *MonthlyLedger) section(c Category) (accounts, error) {
	if _, err := ParseCategory(l.Variant, string(c)); err != nil {
		return nil, err
	}
	switch c {
	case CategoryIncome:
		if l.Income == nil {
			l.Income = &Income{}
		}
		return l.Income, nil
	case CategoryPayroll:
		if l.Payroll == nil {
			l.Payroll = &Payroll{}
		}
		return l.Payroll, nil
	case CategoryAdditionalIncome:
		if l.AdditionalIncome == nil {
			l.AdditionalIncome = &AdditionalIncome{}
		}
		return l.AdditionalIncome, nil
	case CategoryInvestments:
		return &l.Investments, nil
	case CategorySavings:
		return &l.Savings, nil
	case CategoryVenmo:
		return &l.Venmo, nil
	case CategoryCreditCards:
		return &l.CreditCards, nil
	case CategoryEssentials:
		return &l.Essentials, nil
	case CategoryDiscretionary:
		return &l.Discretionary, nil
	}
	// automaticDeductions is not a plain account set
	return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, c)
}

// Entries returns the lines of a category in display order.
func (l *MonthlyLedger) Entries(c Category) ([]Entry, error) {
	if c == CategoryAutomaticDeductions {
		if _, err := ParseCategory(l.Variant, string(c)); err != nil {
			return nil, err
		}
		out := make([]Entry, 0, len(l.AutomaticDeductions))
		for _, d := range l.AutomaticDeductions {
			out = append(out, Entry{
				Key:         d.Key,
				Label:       humanizeKey(d.Key),
				Amount:      d.Amount,
				Description: d.Description,
			})
		}
		return out, nil
	}
	sec, err := l.section(c)
	if err != nil {
		return nil, err
	}
	fs := sec.fields()
	out := make([]Entry, 0, len(fs))
	for _, f := range fs {
		out = append(out, Entry{Key: f.key, Label: f.label, Group: f.group, Amount: *f.value})
	}
	return out, nil
}

// Sum adds every line of a category. It is zero for categories outside the
// ledger's variant.
func (l *MonthlyLedger) Sum(c Category) decimal.Decimal {
	entries, err := l.Entries(c)
	if err != nil {
		return decimal.Zero
	}
	return sumEntries(entries, "")
}

// SumGroup adds the payroll lines of one group.
func (l *MonthlyLedger) SumGroup(group string) decimal.Decimal {
	entries, err := l.Entries(CategoryPayroll)
	if err != nil {
		return decimal.Zero
	}
	return sumEntries(entries, group)
}

func sumEntries(entries []Entry, group string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if group == "" || e.Group == group {
			total = total.Add(e.Amount)
		}
	}
	return total
}
