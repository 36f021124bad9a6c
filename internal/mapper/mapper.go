// Package mapper transforms one raw Dodge project into the fixed CRM lead
// record. The field-to-path-to-normalizer bindings live in a single static
// table so vendor schema drift is a data change, not a logic change.
package mapper

import (
	"go.uber.org/zap"

	"github.com/sells-group/leads-cli/internal/extract"
	"github.com/sells-group/leads-cli/internal/model"
	"github.com/sells-group/leads-cli/internal/normalize"
)

// RawProject is one unmodified project object from the Dodge search feed.
type RawProject = map[string]any

// kind selects the normalizer applied to an extracted value.
type kind int

const (
	kindText kind = iota
	kindDate
	kindCountry
	kindZip
	kindPhone // assembles path (area code) + path2 (local number)
)

// scope selects where a binding's path is rooted.
type scope int

const (
	scopeProject scope = iota // the project object itself
	scopeOwner                // the Owner entry of the contacts array
	scopePrimary              // primary-flagged entry of the array at path
)

// binding ties one target column to its source path and normalizer.
type binding struct {
	field string
	scope scope
	kind  kind
	path  []string
	path2 []string // second component for kindPhone
	set   func(*model.Lead, string)
}

// bindings is the full mapping table, in output-column order. This is the
// only place to touch when the vendor schema moves.
var bindings = []binding{
	{field: "Current_Opportunity_Phase", scope: scopePrimary, path: []string{"value", "data", "stages"},
		set: func(l *model.Lead, v string) { l.CurrentOpportunityPhase = v }},
	{field: "Name", path: []string{"value", "data", "projectName"},
		set: func(l *model.Lead, v string) { l.Name = v }},
	{field: "Opportunity_Street", path: []string{"value", "data", "locations", "projectAddress", "addressLines", "line1"},
		set: func(l *model.Lead, v string) { l.OpportunityStreet = v }},
	{field: "Opportunity_City", path: []string{"value", "data", "locations", "projectAddress", "city"},
		set: func(l *model.Lead, v string) { l.OpportunityCity = v }},
	{field: "Opportunity_State", path: []string{"value", "data", "locations", "projectAddress", "stateID"},
		set: func(l *model.Lead, v string) { l.OpportunityState = v }},
	{field: "Opportunity_Postal_Code", kind: kindZip, path: []string{"value", "data", "locations", "projectAddress", "zipCode5"},
		set: func(l *model.Lead, v string) { l.OpportunityPostalCode = v }},
	{field: "Opportunity_Country", kind: kindCountry, path: []string{"value", "data", "locations", "projectAddress", "countryID"},
		set: func(l *model.Lead, v string) { l.OpportunityCountry = v }},
	{field: "Opportunity_Type", scope: scopePrimary, path: []string{"value", "data", "types"},
		set: func(l *model.Lead, v string) { l.OpportunityType = v }},
	{field: "Opportunity_Description", path: []string{"value", "data", "notes", "notes"},
		set: func(l *model.Lead, v string) { l.OpportunityDescription = v }},
	{field: "Start_Date", kind: kindDate, path: []string{"value", "data", "additionalDetails", "targetStartDate"},
		set: func(l *model.Lead, v string) { l.StartDate = v }},
	{field: "End_Date", kind: kindDate, path: []string{"value", "data", "additionalDetails", "targetFinishDate"},
		set: func(l *model.Lead, v string) { l.EndDate = v }},

	{field: "Company", scope: scopeOwner, path: []string{"firmName"},
		set: func(l *model.Lead, v string) { l.Company = v }},
	{field: "Account_Information_Phone", scope: scopeOwner, kind: kindPhone,
		path: []string{"phoneAreaCode"}, path2: []string{"phoneNumber"},
		set: func(l *model.Lead, v string) { l.AccountPhone = v }},
	{field: "Account_Information_Web_Site", scope: scopeOwner, path: []string{"url"},
		set: func(l *model.Lead, v string) { l.AccountWebsite = v }},
	{field: "Account_Information_Fax", scope: scopeOwner, kind: kindPhone,
		path: []string{"faxAreaCode"}, path2: []string{"faxNumber"},
		set: func(l *model.Lead, v string) { l.AccountFax = v }},
	{field: "Account_Information_Street", scope: scopeOwner, path: []string{"addressLines", "line1"},
		set: func(l *model.Lead, v string) { l.AccountStreet = v }},
	{field: "Customer_Information_City", scope: scopeOwner, path: []string{"city"},
		set: func(l *model.Lead, v string) { l.CustomerCity = v }},
	{field: "Customer_Information_State", scope: scopeOwner, path: []string{"state"},
		set: func(l *model.Lead, v string) { l.CustomerState = v }},
	{field: "Account_Information_County", scope: scopeOwner, path: []string{"county"},
		set: func(l *model.Lead, v string) { l.AccountCounty = v }},
	{field: "Account_Information_Postal_Code", scope: scopeOwner, kind: kindZip, path: []string{"zipCode5"},
		set: func(l *model.Lead, v string) { l.AccountPostalCode = v }},
	{field: "Customer_Information_Country", scope: scopeOwner, kind: kindCountry, path: []string{"country"},
		set: func(l *model.Lead, v string) { l.CustomerCountry = v }},
	{field: "Contact_Information_Job_Title", scope: scopeOwner, path: []string{"contactTitle"},
		set: func(l *model.Lead, v string) { l.ContactJobTitle = v }},
	{field: "Contact_Information_EMail", scope: scopeOwner, path: []string{"email"},
		set: func(l *model.Lead, v string) { l.ContactEmail = v }},
	{field: "Contact_Information_Phone", scope: scopeOwner, kind: kindPhone,
		path: []string{"phoneAreaCode"}, path2: []string{"phoneNumber"},
		set: func(l *model.Lead, v string) { l.ContactPhone = v }},
}

// Constants are the fixed CRM columns attached to every emitted lead.
type Constants struct {
	Field1 string
	Field2 string
	Field3 string
	Field4 string
	Field5 string
	Field6 string
	Field7 string
}

// Mapper maps raw Dodge projects into CRM lead records.
type Mapper struct {
	consts Constants
}

// New creates a Mapper with the given CRM constant columns.
func New(consts Constants) *Mapper {
	return &Mapper{consts: consts}
}

// Map transforms one raw project into a Lead. It never fails: missing or
// malformed source fields map to empty values via the extract/normalize
// totality guarantees, and every output column is always populated.
func (m *Mapper) Map(raw RawProject) model.Lead {
	lead := model.Lead{
		DRNumber: extract.Value(raw, "value", "summary", "dodgeReportNumber"),
	}

	owner := ownerContact(raw)
	if owner == nil {
		zap.L().Debug("mapper: no owner contact on project", zap.String("dr_number", lead.DRNumber))
	}

	for _, b := range bindings {
		var v string
		switch b.scope {
		case scopePrimary:
			v = extract.Primary(extract.Slice(raw, b.path...))
		case scopeOwner:
			if owner == nil {
				break
			}
			if b.kind == kindPhone {
				v = normalize.Phone(extract.Value(owner, b.path...), extract.Value(owner, b.path2...))
			} else {
				v = extract.Value(owner, b.path...)
			}
		default:
			v = extract.Value(raw, b.path...)
		}

		switch b.kind {
		case kindDate:
			v = normalize.Date(v)
		case kindCountry:
			v = normalize.Country(v)
		case kindZip:
			v = normalize.ZeroPadZip(v)
		}

		b.set(&lead, normalize.Text(v))
	}

	if lead.OpportunityType == "" {
		zap.L().Warn("mapper: project has no primary type", zap.String("dr_number", lead.DRNumber))
	}

	// Project geo coordinates ride on the account fields; absent
	// coordinates default to the CRM's zero marker.
	geo := extract.Object(raw, "value", "data", "geo")
	lead.AccountLongitude = coordOrZero(geo, "longitude")
	lead.AccountLatitude = coordOrZero(geo, "latitude")

	// Contact name arrives as one string and the CRM wants two.
	if owner != nil {
		lead.ContactFirstName, lead.ContactLastName = normalize.SplitName(
			normalize.Text(extract.Value(owner, "contactName")))
	}

	lead.CRMField1 = m.consts.Field1
	lead.CRMField2 = m.consts.Field2
	lead.CRMField3 = m.consts.Field3
	lead.CRMField4 = m.consts.Field4
	lead.CRMField5 = m.consts.Field5
	lead.CRMField6 = m.consts.Field6
	lead.CRMField7 = m.consts.Field7

	return lead
}

// MapAll maps a batch of raw projects, preserving input order.
func (m *Mapper) MapAll(raws []RawProject) []model.Lead {
	leads := make([]model.Lead, 0, len(raws))
	for _, raw := range raws {
		leads = append(leads, m.Map(raw))
	}
	return leads
}

// ownerContact finds the contacts entry whose role is "Owner", or nil.
func ownerContact(raw RawProject) map[string]any {
	for _, c := range extract.Slice(raw, "value", "data", "contacts") {
		contact, ok := c.(map[string]any)
		if !ok {
			continue
		}
		if extract.Value(contact, "contactRole") == "Owner" {
			return contact
		}
	}
	return nil
}

func coordOrZero(geo map[string]any, key string) string {
	if v := extract.Scalar(geo[key]); v != "" {
		return v
	}
	return "0.0000"
}
