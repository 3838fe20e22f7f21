package models

import "encoding/json"

// badgeWire mirrors Badge with every date field untyped so historical
// representations (ISO strings with or without offset or time part, nulls)
// decode without error. Normalization happens exactly once, here; the rest of
// the code only ever sees *time.Time.
type badgeWire struct {
	Kind     Kind   `json:"type"`
	BadgeNum string `json:"badge_num"`
	FullName string `json:"full_name"`
	Company  string `json:"company"`
	CIN      string `json:"cin"`

	RequestDate    any `json:"request_date"`
	DGSNSent       any `json:"dgsn_sent"`
	DGSNSentDate   any `json:"dgsn_sent_date"`
	DGSNReturnDate any `json:"dgsn_return_date"`
	GRSentDate     any `json:"gr_sent_date"`
	GRReturnDate   any `json:"gr_return_date"`

	ValidityDuration ValidityDuration `json:"validity_duration"`
	ValidityStart    any              `json:"validity_start"`
	ValidityEnd      any              `json:"validity_end"`

	RecoveryDate any          `json:"recovery_date"`
	RecoveryType RecoveryType `json:"recovery_type"`
	BadgeType    Kind         `json:"badge_type"`

	ContractPath       string `json:"contract_path"`
	ExpiryAcknowledged any    `json:"expiry_acknowledged"`
}

func (b *Badge) UnmarshalJSON(data []byte) error {
	var w badgeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*b = Badge{
		Kind:     w.Kind,
		BadgeNum: w.BadgeNum,
		FullName: w.FullName,
		Company:  w.Company,
		CIN:      w.CIN,

		RequestDate:    NormalizeDatePtr(w.RequestDate),
		DGSNSent:       NormalizeDatePtr(w.DGSNSent),
		DGSNSentDate:   NormalizeDatePtr(w.DGSNSentDate),
		DGSNReturnDate: NormalizeDatePtr(w.DGSNReturnDate),
		GRSentDate:     NormalizeDatePtr(w.GRSentDate),
		GRReturnDate:   NormalizeDatePtr(w.GRReturnDate),

		ValidityDuration: w.ValidityDuration,
		ValidityStart:    NormalizeDatePtr(w.ValidityStart),
		ValidityEnd:      NormalizeDatePtr(w.ValidityEnd),

		RecoveryDate: NormalizeDatePtr(w.RecoveryDate),
		RecoveryType: w.RecoveryType,
		BadgeType:    w.BadgeType,

		ContractPath:       w.ContractPath,
		ExpiryAcknowledged: NormalizeDatePtr(w.ExpiryAcknowledged),
	}
	return nil
}
