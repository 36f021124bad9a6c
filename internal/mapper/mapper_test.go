package mapper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leads-cli/internal/model"
)

const rawProjectJSON = `{
	"value": {
		"summary": {"dodgeReportNumber": "202500123456"},
		"data": {
			"projectName": {"id": 1, "value": "Riverside  Medical\nTower"},
			"types": [
				{"value": "Office", "primary": "N"},
				{"value": "Hospital", "primary": "Y"}
			],
			"stages": [{"value": "Bidding", "primary": "Y"}],
			"notes": {"notes": "Ground-up hospital.\r\nSix floors."},
			"locations": {
				"projectAddress": {
					"addressLines": {"line1": {"value": "100 River Rd"}},
					"city": {"value": "Memphis"},
					"stateID": {"value": "TN"},
					"zipCode5": 2134,
					"countryID": {"value": "United States"}
				}
			},
			"additionalDetails": {
				"targetStartDate": {"value": "10/31/2025"},
				"targetFinishDate": {"value": "2027-01-15T00:00:00"}
			},
			"geo": {"latitude": 35.1495, "longitude": -90.049},
			"contacts": [
				{"contactRole": {"value": "Architect"}, "firmName": "Draft LLC"},
				{
					"contactRole": {"value": "Owner"},
					"firmName": "River Health Partners",
					"phoneAreaCode": "901",
					"phoneNumber": "4953300",
					"faxAreaCode": "",
					"faxNumber": "5551000",
					"url": "https://riverhealth.example.com",
					"addressLines": {"line1": "1 Health Way"},
					"city": "Memphis",
					"state": "TN",
					"county": "Shelby",
					"zipCode5": "38103",
					"country": "USA",
					"contactName": "Dana De La Cruz",
					"contactTitle": "Facilities Director",
					"email": "dana@riverhealth.example.com"
				}
			]
		}
	}
}`

func decodeProject(t *testing.T, raw string) RawProject {
	t.Helper()
	var p RawProject
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func testMapper() *Mapper {
	return New(Constants{Field1: "CONST1", Field7: "CONST7"})
}

func TestMap_FullProject(t *testing.T) {
	lead := testMapper().Map(decodeProject(t, rawProjectJSON))

	assert.Equal(t, "202500123456", lead.DRNumber)
	assert.Equal(t, "Bidding", lead.CurrentOpportunityPhase)
	assert.Equal(t, "Riverside Medical Tower", lead.Name)
	assert.Equal(t, "Hospital", lead.OpportunityType)
	assert.Equal(t, "Ground-up hospital. Six floors.", lead.OpportunityDescription)

	assert.Equal(t, "100 River Rd", lead.OpportunityStreet)
	assert.Equal(t, "Memphis", lead.OpportunityCity)
	assert.Equal(t, "TN", lead.OpportunityState)
	assert.Equal(t, "02134", lead.OpportunityPostalCode)
	assert.Equal(t, "US", lead.OpportunityCountry)

	assert.Equal(t, "2025-10-31", lead.StartDate)
	assert.Equal(t, "2027-01-15", lead.EndDate)

	assert.Equal(t, "River Health Partners", lead.Company)
	assert.Equal(t, "901-4953300", lead.AccountPhone)
	assert.Equal(t, "901-4953300", lead.ContactPhone)
	assert.Equal(t, "5551000", lead.AccountFax)
	assert.Equal(t, "https://riverhealth.example.com", lead.AccountWebsite)
	assert.Equal(t, "1 Health Way", lead.AccountStreet)
	assert.Equal(t, "Shelby", lead.AccountCounty)
	assert.Equal(t, "38103", lead.AccountPostalCode)
	assert.Equal(t, "US", lead.CustomerCountry)
	assert.Equal(t, "35.1495", lead.AccountLatitude)
	assert.Equal(t, "-90.049", lead.AccountLongitude)

	assert.Equal(t, "Dana", lead.ContactFirstName)
	assert.Equal(t, "De La Cruz", lead.ContactLastName)
	assert.Equal(t, "Facilities Director", lead.ContactJobTitle)

	assert.Equal(t, "CONST1", lead.CRMField1)
	assert.Equal(t, "CONST7", lead.CRMField7)
}

func TestMap_EmptyProject(t *testing.T) {
	lead := testMapper().Map(RawProject{})

	// Every column is present; unset ones are empty except the geo zero
	// markers and CRM constants.
	assert.Equal(t, "", lead.DRNumber)
	assert.Equal(t, "0.0000", lead.AccountLatitude)
	assert.Equal(t, "0.0000", lead.AccountLongitude)
	assert.Len(t, lead.Row(), len(model.Columns()))
}

func TestMap_NoDateStillFlows(t *testing.T) {
	p := decodeProject(t, rawProjectJSON)
	data := p["value"].(map[string]any)["data"].(map[string]any)
	delete(data, "additionalDetails")

	lead := testMapper().Map(p)
	assert.Equal(t, "", lead.StartDate)
	assert.Equal(t, "", lead.EndDate)
	assert.Equal(t, "202500123456", lead.DRNumber)
}

func TestMap_NoOwnerContact(t *testing.T) {
	p := decodeProject(t, rawProjectJSON)
	data := p["value"].(map[string]any)["data"].(map[string]any)
	data["contacts"] = []any{
		map[string]any{"contactRole": map[string]any{"value": "Architect"}, "firmName": "Draft LLC"},
	}

	lead := testMapper().Map(p)
	assert.Equal(t, "", lead.Company)
	assert.Equal(t, "", lead.ContactFirstName)
	assert.Equal(t, "", lead.ContactPhone)
	// Geo rides on the project, not the owner.
	assert.Equal(t, "35.1495", lead.AccountLatitude)
}

func TestMap_UnknownCountryStaysEmpty(t *testing.T) {
	p := decodeProject(t, rawProjectJSON)
	addr := p["value"].(map[string]any)["data"].(map[string]any)["locations"].(map[string]any)["projectAddress"].(map[string]any)
	addr["countryID"] = map[string]any{"value": "Atlantis"}

	lead := testMapper().Map(p)
	assert.Equal(t, "", lead.OpportunityCountry)
}

func TestMapAll_PreservesOrder(t *testing.T) {
	p1 := decodeProject(t, rawProjectJSON)
	p2 := RawProject{}
	leads := testMapper().MapAll([]RawProject{p1, p2})

	require.Len(t, leads, 2)
	assert.Equal(t, "202500123456", leads[0].DRNumber)
	assert.Equal(t, "", leads[1].DRNumber)
}

func TestBindingsCoverDistinctColumns(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range bindings {
		assert.False(t, seen[b.field], "duplicate binding for %s", b.field)
		seen[b.field] = true
	}
}
