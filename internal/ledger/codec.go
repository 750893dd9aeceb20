package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func init() {
	// amounts are written as JSON numbers, matching older exports
	decimal.MarshalJSONWithoutQuotes = true
}

type DeductionEntry struct {
	Key         string          `json:"-"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// Deductions is an ordered deduction set. It is encoded as a JSON object
// whose key order follows the slice.
type Deductions []DeductionEntry

func (d Deductions) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range d {
		total = total.Add(e.Amount)
	}
	return total
}

func (d Deductions) Clone() Deductions {
	if d == nil {
		return nil
	}
	out := make(Deductions, len(d))
	copy(out, d)
	return out
}

func (d Deductions) index(key string) int {
	for i, e := range d {
		if e.Key == key {
			return i
		}
	}
	return -1
}

func (d Deductions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *Deductions) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*d = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("automaticDeductions: expected object, got %v", tok)
	}
	out := Deductions{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("automaticDeductions.%s: %w", key, err)
		}
		entry := DeductionEntry{Key: key}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			var obj struct {
				Amount      json.RawMessage `json:"amount"`
				Description string          `json:"description"`
			}
			if err := json.Unmarshal(trimmed, &obj); err != nil {
				return fmt.Errorf("automaticDeductions.%s: %w", key, err)
			}
			entry.Description = obj.Description
			if err := json.Unmarshal(lenientAmount(obj.Amount), &entry.Amount); err != nil {
				return fmt.Errorf("automaticDeductions.%s: %w", key, err)
			}
		} else if err := json.Unmarshal(lenientAmount(trimmed), &entry.Amount); err != nil {
			// bare amount without a description
			return fmt.Errorf("automaticDeductions.%s: %w", key, err)
		}
		if i := out.index(key); i >= 0 {
			out[i] = entry
			continue
		}
		out = append(out, entry)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = out
	return nil
}

// UnmarshalJSON decodes a ledger written by any release. A missing variant
// is inferred from the presence of the payroll section and absent sections
// come back zeroed.
//
// Account values that are not numbers read as 0, the same as an emptied
// form field.
func (l *MonthlyLedger) UnmarshalJSON(data []byte) error {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return err
	}
	for name, section := range sections {
		if name == "variant" || name == string(CategoryAutomaticDeductions) {
			continue
		}
		sections[name] = lenientSection(section)
	}
	data, err := json.Marshal(sections)
	if err != nil {
		return err
	}

	type plain MonthlyLedger
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*l = MonthlyLedger(p)

	if l.Variant == "" {
		if l.Payroll != nil {
			l.Variant = VariantPayroll
		} else {
			l.Variant = VariantSimple
		}
	}
	if _, err := ParseVariant(string(l.Variant)); err != nil {
		return err
	}
	l.normalize()
	return nil
}

func (l *MonthlyLedger) normalize() {
	switch l.Variant {
	case VariantPayroll:
		if l.Payroll == nil {
			l.Payroll = &Payroll{}
		}
		if l.AdditionalIncome == nil {
			l.AdditionalIncome = &AdditionalIncome{}
		}
	default:
		if l.Income == nil {
			l.Income = &Income{}
		}
		if l.AutomaticDeductions == nil {
			l.AutomaticDeductions = DefaultDeductions()
		}
	}
}

// Clone returns a deep copy.
func (l *MonthlyLedger) Clone() *MonthlyLedger {
	if l == nil {
		return nil
	}
	c := *l
	if l.Income != nil {
		v := *l.Income
		c.Income = &v
	}
	if l.Payroll != nil {
		v := *l.Payroll
		c.Payroll = &v
	}
	if l.AdditionalIncome != nil {
		v := *l.AdditionalIncome
		c.AdditionalIncome = &v
	}
	c.AutomaticDeductions = l.AutomaticDeductions.Clone()
	return &c
}

var zeroAmount = json.RawMessage("0")

// lenientSection rewrites every value of an account object with
// lenientAmount. Anything other than an object is returned unchanged.
func lenientSection(section json.RawMessage) json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(section, &fields); err != nil || fields == nil {
		return section
	}
	for k, v := range fields {
		fields[k] = lenientAmount(v)
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return section
	}
	return out
}

// lenientAmount keeps numbers and null, parses strings the way form input
// is parsed and maps everything else to 0.
func lenientAmount(v json.RawMessage) json.RawMessage {
	t := bytes.TrimSpace(v)
	if len(t) == 0 {
		return zeroAmount
	}
	switch t[0] {
	case '"':
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return zeroAmount
		}
		return json.RawMessage(core.ParseAmountOrZero(s).String())
	case 'n':
		return t
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return t
	}
	return zeroAmount
}
