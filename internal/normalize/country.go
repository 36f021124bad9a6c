package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

var countryFold = cases.Fold()

// countryKey canonicalizes a country name for table lookup: case-folded,
// punctuation stripped, whitespace collapsed.
func countryKey(name string) string {
	folded := countryFold.String(name)
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '\'', '(', ')':
			return -1
		case '-', '_', '/':
			return ' '
		}
		return r
	}, folded)
	return strings.Join(strings.Fields(cleaned), " ")
}

// Country maps a country name or known alias to its ISO 3166-1 alpha-2
// code. Lookup is case-insensitive and tolerant of punctuation and
// whitespace variants. A string that already is a known alpha-2 code
// passes through unchanged. Unknown input yields "" — never a guess.
func Country(name string) string {
	key := countryKey(name)
	if key == "" {
		return ""
	}
	if code, ok := countryCodes[key]; ok {
		return code
	}
	// Already a code?
	if len(key) == 2 {
		upper := strings.ToUpper(key)
		if _, ok := knownCodes[upper]; ok {
			return upper
		}
	}
	return ""
}

// countryCodes maps canonicalized country names and their common feed
// variants to ISO 3166-1 alpha-2 codes. Keys must be in countryKey form.
var countryCodes = map[string]string{
	"afghanistan":                      "AF",
	"albania":                          "AL",
	"algeria":                          "DZ",
	"american samoa":                   "AS",
	"andorra":                          "AD",
	"angola":                           "AO",
	"anguilla":                         "AI",
	"antarctica":                       "AQ",
	"antigua and barbuda":              "AG",
	"antigua":                          "AG",
	"argentina":                        "AR",
	"armenia":                          "AM",
	"aruba":                            "AW",
	"australia":                        "AU",
	"austria":                          "AT",
	"azerbaijan":                       "AZ",
	"bahamas":                          "BS",
	"the bahamas":                      "BS",
	"bahrain":                          "BH",
	"bangladesh":                       "BD",
	"barbados":                         "BB",
	"belarus":                          "BY",
	"belgium":                          "BE",
	"belize":                           "BZ",
	"benin":                            "BJ",
	"bermuda":                          "BM",
	"bhutan":                           "BT",
	"bolivia":                          "BO",
	"bosnia and herzegovina":           "BA",
	"bosnia":                           "BA",
	"botswana":                         "BW",
	"brazil":                           "BR",
	"british virgin islands":           "VG",
	"brunei":                           "BN",
	"brunei darussalam":                "BN",
	"bulgaria":                         "BG",
	"burkina faso":                     "BF",
	"burma":                            "MM",
	"burundi":                          "BI",
	"cabo verde":                       "CV",
	"cape verde":                       "CV",
	"cambodia":                         "KH",
	"cameroon":                         "CM",
	"canada":                           "CA",
	"cayman islands":                   "KY",
	"central african republic":         "CF",
	"chad":                             "TD",
	"chile":                            "CL",
	"china":                            "CN",
	"peoples republic of china":        "CN",
	"colombia":                         "CO",
	"comoros":                          "KM",
	"congo":                            "CG",
	"republic of the congo":            "CG",
	"democratic republic of the congo": "CD",
	"dr congo":                         "CD",
	"drc":                              "CD",
	"cook islands":                     "CK",
	"costa rica":                       "CR",
	"cote divoire":                     "CI",
	"ivory coast":                      "CI",
	"croatia":                          "HR",
	"cuba":                             "CU",
	"curacao":                          "CW",
	"cyprus":                           "CY",
	"czech republic":                   "CZ",
	"czechia":                          "CZ",
	"denmark":                          "DK",
	"djibouti":                         "DJ",
	"dominica":                         "DM",
	"dominican republic":               "DO",
	"ecuador":                          "EC",
	"egypt":                            "EG",
	"el salvador":                      "SV",
	"equatorial guinea":                "GQ",
	"eritrea":                          "ER",
	"estonia":                          "EE",
	"eswatini":                         "SZ",
	"swaziland":                        "SZ",
	"ethiopia":                         "ET",
	"falkland islands":                 "FK",
	"faroe islands":                    "FO",
	"fiji":                             "FJ",
	"finland":                          "FI",
	"france":                           "FR",
	"french guiana":                    "GF",
	"french polynesia":                 "PF",
	"gabon":                            "GA",
	"gambia":                           "GM",
	"the gambia":                       "GM",
	"georgia":                          "GE",
	"germany":                          "DE",
	"ghana":                            "GH",
	"gibraltar":                        "GI",
	"greece":                           "GR",
	"greenland":                        "GL",
	"grenada":                          "GD",
	"guadeloupe":                       "GP",
	"guam":                             "GU",
	"guatemala":                        "GT",
	"guernsey":                         "GG",
	"guinea":                           "GN",
	"guinea bissau":                    "GW",
	"guyana":                           "GY",
	"haiti":                            "HT",
	"honduras":                         "HN",
	"hong kong":                        "HK",
	"hungary":                          "HU",
	"iceland":                          "IS",
	"india":                            "IN",
	"indonesia":                        "ID",
	"iran":                             "IR",
	"iraq":                             "IQ",
	"ireland":                          "IE",
	"republic of ireland":              "IE",
	"isle of man":                      "IM",
	"israel":                           "IL",
	"italy":                            "IT",
	"jamaica":                          "JM",
	"japan":                            "JP",
	"jersey":                           "JE",
	"jordan":                           "JO",
	"kazakhstan":                       "KZ",
	"kenya":                            "KE",
	"kiribati":                         "KI",
	"kosovo":                           "XK",
	"kuwait":                           "KW",
	"kyrgyzstan":                       "KG",
	"laos":                             "LA",
	"latvia":                           "LV",
	"lebanon":                          "LB",
	"lesotho":                          "LS",
	"liberia":                          "LR",
	"libya":                            "LY",
	"liechtenstein":                    "LI",
	"lithuania":                        "LT",
	"luxembourg":                       "LU",
	"macau":                            "MO",
	"macao":                            "MO",
	"madagascar":                       "MG",
	"malawi":                           "MW",
	"malaysia":                         "MY",
	"maldives":                         "MV",
	"mali":                             "ML",
	"malta":                            "MT",
	"marshall islands":                 "MH",
	"martinique":                       "MQ",
	"mauritania":                       "MR",
	"mauritius":                        "MU",
	"mayotte":                          "YT",
	"mexico":                           "MX",
	"micronesia":                       "FM",
	"moldova":                          "MD",
	"monaco":                           "MC",
	"mongolia":                         "MN",
	"montenegro":                       "ME",
	"montserrat":                       "MS",
	"morocco":                          "MA",
	"mozambique":                       "MZ",
	"myanmar":                          "MM",
	"namibia":                          "NA",
	"nauru":                            "NR",
	"nepal":                            "NP",
	"netherlands":                      "NL",
	"the netherlands":                  "NL",
	"holland":                          "NL",
	"new caledonia":                    "NC",
	"new zealand":                      "NZ",
	"nicaragua":                        "NI",
	"niger":                            "NE",
	"nigeria":                          "NG",
	"niue":                             "NU",
	"north korea":                      "KP",
	"north macedonia":                  "MK",
	"macedonia":                        "MK",
	"northern mariana islands":         "MP",
	"norway":                           "NO",
	"oman":                             "OM",
	"pakistan":                         "PK",
	"palau":                            "PW",
	"palestine":                        "PS",
	"panama":                           "PA",
	"papua new guinea":                 "PG",
	"paraguay":                         "PY",
	"peru":                             "PE",
	"philippines":                      "PH",
	"the philippines":                  "PH",
	"poland":                           "PL",
	"portugal":                         "PT",
	"puerto rico":                      "PR",
	"qatar":                            "QA",
	"reunion":                          "RE",
	"romania":                          "RO",
	"russia":                           "RU",
	"russian federation":               "RU",
	"rwanda":                           "RW",
	"saint kitts and nevis":            "KN",
	"st kitts and nevis":               "KN",
	"saint lucia":                      "LC",
	"st lucia":                         "LC",
	"saint martin":                     "MF",
	"saint vincent and the grenadines": "VC",
	"st vincent and the grenadines":    "VC",
	"samoa":                            "WS",
	"san marino":                       "SM",
	"sao tome and principe":            "ST",
	"saudi arabia":                     "SA",
	"senegal":                          "SN",
	"serbia":                           "RS",
	"seychelles":                       "SC",
	"sierra leone":                     "SL",
	"singapore":                        "SG",
	"sint maarten":                     "SX",
	"slovakia":                         "SK",
	"slovak republic":                  "SK",
	"slovenia":                         "SI",
	"solomon islands":                  "SB",
	"somalia":                          "SO",
	"south africa":                     "ZA",
	"south korea":                      "KR",
	"korea":                            "KR",
	"republic of korea":                "KR",
	"south sudan":                      "SS",
	"spain":                            "ES",
	"sri lanka":                        "LK",
	"sudan":                            "SD",
	"suriname":                         "SR",
	"sweden":                           "SE",
	"switzerland":                      "CH",
	"syria":                            "SY",
	"taiwan":                           "TW",
	"tajikistan":                       "TJ",
	"tanzania":                         "TZ",
	"thailand":                         "TH",
	"timor leste":                      "TL",
	"east timor":                       "TL",
	"togo":                             "TG",
	"tonga":                            "TO",
	"trinidad and tobago":              "TT",
	"trinidad":                         "TT",
	"tunisia":                          "TN",
	"turkey":                           "TR",
	"turkiye":                          "TR",
	"turkmenistan":                     "TM",
	"turks and caicos islands":         "TC",
	"turks and caicos":                 "TC",
	"tuvalu":                           "TV",
	"uganda":                           "UG",
	"ukraine":                          "UA",
	"united arab emirates":             "AE",
	"uae":                              "AE",
	"united kingdom":                   "GB",
	"uk":                               "GB",
	"great britain":                    "GB",
	"britain":                          "GB",
	"england":                          "GB",
	"scotland":                         "GB",
	"wales":                            "GB",
	"northern ireland":                 "GB",
	"united states":                    "US",
	"united states of america":         "US",
	"usa":                              "US",
	"u s a":                            "US",
	"america":                          "US",
	"uruguay":                          "UY",
	"us virgin islands":                "VI",
	"virgin islands":                   "VI",
	"uzbekistan":                       "UZ",
	"vanuatu":                          "VU",
	"vatican city":                     "VA",
	"holy see":                         "VA",
	"venezuela":                        "VE",
	"vietnam":                          "VN",
	"viet nam":                         "VN",
	"yemen":                            "YE",
	"zambia":                           "ZM",
	"zimbabwe":                         "ZW",
}

// knownCodes is the set of valid alpha-2 codes accepted as passthrough.
var knownCodes = func() map[string]struct{} {
	set := make(map[string]struct{}, len(countryCodes))
	for _, code := range countryCodes {
		set[code] = struct{}{}
	}
	return set
}()
