package component

import (
	"errors"
	"strconv"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
)

// Filter form field names.
const (
	FieldMinROI     = "min_roi"
	FieldMinWinRate = "min_win_rate"
	FieldMinTrades  = "min_trades"
	FieldMinVolume  = "min_volume"
	FieldMinProfit  = "min_profit"
	FieldRiskLevel  = "risk_level"
)

// RiskOptions are the choices of the risk level select; "Any" disables it.
var RiskOptions = []string{"Any", string(domain.RiskLow), string(domain.RiskMedium), string(domain.RiskHigh)}

func nonNegative(v string) error {
	if v == "" {
		return nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err == nil && n < 0 {
		return errors.New("must be 0 or more")
	}
	return nil
}

func percentRange(v string) error {
	if v == "" {
		return nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err == nil && (n < 0 || n > 100) {
		return errors.New("must be between 0 and 100")
	}
	return nil
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// NewFilterForm builds the server-side filter panel prefilled with c.
func NewFilterForm(c domain.FilterCriteria) *Form {
	f := NewForm().
		SetTitle("Filters").
		AddField(FieldMinROI, FieldTypeNumber, "Min ROI %", "0").
		AddField(FieldMinWinRate, FieldTypeNumber, "Min Win Rate %", "0").
		AddField(FieldMinTrades, FieldTypeNumber, "Min Trades", "0").
		SetFieldValidation(FieldMinROI, nonNegative).
		SetFieldValidation(FieldMinWinRate, percentRange).
		SetFieldValidation(FieldMinTrades, nonNegative)

	f.SetFieldValue(FieldMinROI, ftoa(c.MinROI))
	f.SetFieldValue(FieldMinWinRate, ftoa(c.MinWinRate))
	f.SetFieldValue(FieldMinTrades, strconv.Itoa(c.MinTrades))
	return f
}

// NewExtendedFilterForm adds the client-side fields of the wallets screen.
func NewExtendedFilterForm(e domain.ExtendedFilter) *Form {
	f := NewFilterForm(e.Criteria).
		SetTitle("Advanced Filters").
		AddField(FieldMinVolume, FieldTypeNumber, "Min Volume $", "0").
		AddField(FieldMinProfit, FieldTypeNumber, "Min Profit $", "0").
		AddField(FieldRiskLevel, FieldTypeSelect, "Risk Level", "").
		SetFieldValidation(FieldMinVolume, nonNegative).
		SetFieldOptions(FieldRiskLevel, RiskOptions)

	f.SetFieldValue(FieldMinVolume, ftoa(e.MinVolume))
	f.SetFieldValue(FieldMinProfit, ftoa(e.MinProfit))
	if e.RiskLevel != "" {
		f.SetFieldValue(FieldRiskLevel, string(e.RiskLevel))
	}
	return f
}

// ReadCriteria validates the form and returns the server-side criteria.
func ReadCriteria(f *Form) (domain.FilterCriteria, error) {
	if !f.Validate() {
		return domain.FilterCriteria{}, errors.New("invalid filter values")
	}
	var c domain.FilterCriteria
	var err error
	if c.MinROI, err = f.Float(FieldMinROI); err != nil {
		return c, err
	}
	if c.MinWinRate, err = f.Float(FieldMinWinRate); err != nil {
		return c, err
	}
	if c.MinTrades, err = f.Int(FieldMinTrades); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// ReadExtended reads the full wallets-screen filter.
func ReadExtended(f *Form) (domain.ExtendedFilter, error) {
	c, err := ReadCriteria(f)
	if err != nil {
		return domain.ExtendedFilter{}, err
	}
	e := domain.ExtendedFilter{Criteria: c}
	if e.MinVolume, err = f.Float(FieldMinVolume); err != nil {
		return e, err
	}
	if e.MinProfit, err = f.Float(FieldMinProfit); err != nil {
		return e, err
	}
	e.RiskLevel = domain.ParseRiskRating(f.GetValue(FieldRiskLevel))
	return e, nil
}
