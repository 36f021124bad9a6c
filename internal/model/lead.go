package model

// Lead is a single construction-project lead normalized into the fixed
// CRM import schema. Every column is always present, possibly empty, so
// downstream consumers never branch on missing keys.
type Lead struct {
	// DRNumber is the Dodge Report Number, the natural primary key used
	// for duplicate suppression. It is tracking state, not an output column.
	DRNumber string `json:"dr_number"`

	CurrentOpportunityPhase string `json:"current_opportunity_phase"`
	Name                    string `json:"name"`
	OpportunityStreet       string `json:"opportunity_street"`
	OpportunityCity         string `json:"opportunity_city"`
	OpportunityState        string `json:"opportunity_state"`
	OpportunityPostalCode   string `json:"opportunity_postal_code"`
	OpportunityCountry      string `json:"opportunity_country"`
	MarketSegmentCode       string `json:"market_segment_code"`
	IndustryCode            string `json:"industry_code"`
	OpportunityType         string `json:"opportunity_type"`
	OpportunityDescription  string `json:"opportunity_description"`

	Company              string `json:"company"`
	AccountPhone         string `json:"account_phone"`
	AccountWebsite       string `json:"account_website"`
	AccountFax           string `json:"account_fax"`
	AccountLongitude     string `json:"account_longitude"`
	AccountLatitude      string `json:"account_latitude"`
	AccountStreet        string `json:"account_street"`
	CustomerCity         string `json:"customer_city"`
	CustomerState        string `json:"customer_state"`
	AccountCounty        string `json:"account_county"`
	AccountPostalCode    string `json:"account_postal_code"`
	CustomerCountry      string `json:"customer_country"`
	ContactJobTitle      string `json:"contact_job_title"`
	ContactEmail         string `json:"contact_email"`
	ContactPhone         string `json:"contact_phone"`
	StartDate            string `json:"start_date"`
	EndDate              string `json:"end_date"`
	ContactFirstName     string `json:"contact_first_name"`
	ContactLastName      string `json:"contact_last_name"`

	CRMField1 string `json:"crm_field_1"`
	CRMField2 string `json:"crm_field_2"`
	CRMField3 string `json:"crm_field_3"`
	CRMField4 string `json:"crm_field_4"`
	CRMField5 string `json:"crm_field_5"`
	CRMField6 string `json:"crm_field_6"`
	CRMField7 string `json:"crm_field_7"`
}

// Columns returns the CRM import column headers in output order.
func Columns() []string {
	return []string{
		"Current_Opportunity_Phase",
		"Name",
		"Opportunity_Street",
		"Opportunity_City",
		"Opportunity_State",
		"Opportunity_Postal_Code",
		"Opportunity_Country",
		"Market_Segment_Code",
		"Industry_Code",
		"Opportunity_Type",
		"Opportunity_Description",
		"Company",
		"Account_Information_Phone",
		"Account_Information_Web_Site",
		"Account_Information_Fax",
		"Account_Information_Longitude",
		"Account_Information_Latitude",
		"Account_Information_Street",
		"Customer_Information_City",
		"Customer_Information_State",
		"Account_Information_County",
		"Account_Information_Postal_Code",
		"Customer_Information_Country",
		"Contact_Information_Job_Title",
		"Contact_Information_EMail",
		"Contact_Information_Phone",
		"Start_Date",
		"End_Date",
		"Main_Contact_Person_First_name",
		"Main_Contact_Person_Last_name",
		"CRM_Field_1",
		"CRM_Field_2",
		"CRM_Field_3",
		"CRM_Field_4",
		"CRM_Field_5",
		"CRM_Field_6",
		"CRM_Field_7",
	}
}

// Row returns the lead's column values in the same order as Columns.
func (l *Lead) Row() []string {
	return []string{
		l.CurrentOpportunityPhase,
		l.Name,
		l.OpportunityStreet,
		l.OpportunityCity,
		l.OpportunityState,
		l.OpportunityPostalCode,
		l.OpportunityCountry,
		l.MarketSegmentCode,
		l.IndustryCode,
		l.OpportunityType,
		l.OpportunityDescription,
		l.Company,
		l.AccountPhone,
		l.AccountWebsite,
		l.AccountFax,
		l.AccountLongitude,
		l.AccountLatitude,
		l.AccountStreet,
		l.CustomerCity,
		l.CustomerState,
		l.AccountCounty,
		l.AccountPostalCode,
		l.CustomerCountry,
		l.ContactJobTitle,
		l.ContactEmail,
		l.ContactPhone,
		l.StartDate,
		l.EndDate,
		l.ContactFirstName,
		l.ContactLastName,
		l.CRMField1,
		l.CRMField2,
		l.CRMField3,
		l.CRMField4,
		l.CRMField5,
		l.CRMField6,
		l.CRMField7,
	}
}

// Fields returns the lead as a column-name keyed map, for sinks that take
// field maps rather than positional rows.
func (l *Lead) Fields() map[string]string {
	cols := Columns()
	row := l.Row()
	out := make(map[string]string, len(cols))
	for i, c := range cols {
		out[c] = row[i]
	}
	return out
}
