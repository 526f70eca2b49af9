// Package geo resolves map feature ids (ISO 3166-1 numeric) to country codes
// and reads the boundary document the map views draw.
package geo

// UnknownCode is the sentinel alpha-2 code of ids missing from the table.
const UnknownCode = "UNKNOWN"

// Country is one resolved map feature.
type Country struct {
	ID     int
	Alpha2 string
	Name   string
}

// Unknown is returned for ids that are not in the table. Callers treat it as "no data".
var Unknown = Country{Alpha2: UnknownCode, Name: "Unknown"}

// IsUnknown reports whether c is the sentinel.
func (c Country) IsUnknown() bool {
	return c.Alpha2 == UnknownCode
}

// Resolve looks up a numeric id.
func Resolve(id int) Country {
	if c, ok := byNumeric[id]; ok {
		return c
	}
	u := Unknown
	u.ID = id
	return u
}

// ByAlpha2 looks up a two-letter code; unknown codes return the sentinel.
func ByAlpha2(code string) Country {
	if c, ok := byAlpha2[code]; ok {
		return c
	}
	return Unknown
}

// All returns the table in ascending id order.
func All() []Country {
	out := make([]Country, len(countries))
	copy(out, countries)
	return out
}

var byNumeric = map[int]Country{}
var byAlpha2 = map[string]Country{}

func init() {
	for _, c := range countries {
		byNumeric[c.ID] = c
		byAlpha2[c.Alpha2] = c
	}
}

var countries = []Country{
	{4, "AF", "Afghanistan"},
	{8, "AL", "Albania"},
	{10, "AQ", "Antarctica"},
	{12, "DZ", "Algeria"},
	{24, "AO", "Angola"},
	{31, "AZ", "Azerbaijan"},
	{32, "AR", "Argentina"},
	{36, "AU", "Australia"},
	{40, "AT", "Austria"},
	{44, "BS", "Bahamas"},
	{50, "BD", "Bangladesh"},
	{51, "AM", "Armenia"},
	{56, "BE", "Belgium"},
	{64, "BT", "Bhutan"},
	{68, "BO", "Bolivia"},
	{70, "BA", "Bosnia and Herzegovina"},
	{72, "BW", "Botswana"},
	{76, "BR", "Brazil"},
	{84, "BZ", "Belize"},
	{90, "SB", "Solomon Islands"},
	{96, "BN", "Brunei"},
	{100, "BG", "Bulgaria"},
	{104, "MM", "Myanmar"},
	{108, "BI", "Burundi"},
	{112, "BY", "Belarus"},
	{116, "KH", "Cambodia"},
	{120, "CM", "Cameroon"},
	{124, "CA", "Canada"},
	{140, "CF", "Central African Republic"},
	{144, "LK", "Sri Lanka"},
	{148, "TD", "Chad"},
	{152, "CL", "Chile"},
	{156, "CN", "China"},
	{158, "TW", "Taiwan"},
	{170, "CO", "Colombia"},
	{178, "CG", "Congo"},
	{180, "CD", "Democratic Republic of the Congo"},
	{188, "CR", "Costa Rica"},
	{191, "HR", "Croatia"},
	{192, "CU", "Cuba"},
	{196, "CY", "Cyprus"},
	{203, "CZ", "Czech Republic"},
	{204, "BJ", "Benin"},
	{208, "DK", "Denmark"},
	{214, "DO", "Dominican Republic"},
	{218, "EC", "Ecuador"},
	{222, "SV", "El Salvador"},
	{226, "GQ", "Equatorial Guinea"},
	{231, "ET", "Ethiopia"},
	{232, "ER", "Eritrea"},
	{233, "EE", "Estonia"},
	{238, "FK", "Falkland Islands"},
	{242, "FJ", "Fiji"},
	{246, "FI", "Finland"},
	{250, "FR", "France"},
	{262, "DJ", "Djibouti"},
	{266, "GA", "Gabon"},
	{268, "GE", "Georgia"},
	{270, "GM", "Gambia"},
	{275, "PS", "Palestine"},
	{276, "DE", "Germany"},
	{288, "GH", "Ghana"},
	{300, "GR", "Greece"},
	{304, "GL", "Greenland"},
	{320, "GT", "Guatemala"},
	{324, "GN", "Guinea"},
	{328, "GY", "Guyana"},
	{332, "HT", "Haiti"},
	{340, "HN", "Honduras"},
	{344, "HK", "Hong Kong"},
	{348, "HU", "Hungary"},
	{352, "IS", "Iceland"},
	{356, "IN", "India"},
	{360, "ID", "Indonesia"},
	{364, "IR", "Iran"},
	{368, "IQ", "Iraq"},
	{372, "IE", "Ireland"},
	{376, "IL", "Israel"},
	{380, "IT", "Italy"},
	{384, "CI", "Ivory Coast"},
	{388, "JM", "Jamaica"},
	{392, "JP", "Japan"},
	{398, "KZ", "Kazakhstan"},
	{400, "JO", "Jordan"},
	{404, "KE", "Kenya"},
	{408, "KP", "North Korea"},
	{410, "KR", "South Korea"},
	{414, "KW", "Kuwait"},
	{417, "KG", "Kyrgyzstan"},
	{418, "LA", "Laos"},
	{422, "LB", "Lebanon"},
	{426, "LS", "Lesotho"},
	{428, "LV", "Latvia"},
	{430, "LR", "Liberia"},
	{434, "LY", "Libya"},
	{440, "LT", "Lithuania"},
	{442, "LU", "Luxembourg"},
	{450, "MG", "Madagascar"},
	{454, "MW", "Malawi"},
	{458, "MY", "Malaysia"},
	{466, "ML", "Mali"},
	{478, "MR", "Mauritania"},
	{484, "MX", "Mexico"},
	{496, "MN", "Mongolia"},
	{498, "MD", "Moldova"},
	{499, "ME", "Montenegro"},
	{504, "MA", "Morocco"},
	{508, "MZ", "Mozambique"},
	{512, "OM", "Oman"},
	{516, "NA", "Namibia"},
	{524, "NP", "Nepal"},
	{528, "NL", "Netherlands"},
	{540, "NC", "New Caledonia"},
	{548, "VU", "Vanuatu"},
	{554, "NZ", "New Zealand"},
	{558, "NI", "Nicaragua"},
	{562, "NE", "Niger"},
	{566, "NG", "Nigeria"},
	{578, "NO", "Norway"},
	{586, "PK", "Pakistan"},
	{591, "PA", "Panama"},
	{598, "PG", "Papua New Guinea"},
	{600, "PY", "Paraguay"},
	{604, "PE", "Peru"},
	{608, "PH", "Philippines"},
	{616, "PL", "Poland"},
	{620, "PT", "Portugal"},
	{624, "GW", "Guinea-Bissau"},
	{626, "TL", "Timor-Leste"},
	{630, "PR", "Puerto Rico"},
	{634, "QA", "Qatar"},
	{642, "RO", "Romania"},
	{643, "RU", "Russia"},
	{646, "RW", "Rwanda"},
	{682, "SA", "Saudi Arabia"},
	{686, "SN", "Senegal"},
	{688, "RS", "Serbia"},
	{694, "SL", "Sierra Leone"},
	{702, "SG", "Singapore"},
	{703, "SK", "Slovakia"},
	{704, "VN", "Vietnam"},
	{705, "SI", "Slovenia"},
	{706, "SO", "Somalia"},
	{710, "ZA", "South Africa"},
	{716, "ZW", "Zimbabwe"},
	{724, "ES", "Spain"},
	{728, "SS", "South Sudan"},
	{729, "SD", "Sudan"},
	{732, "EH", "Western Sahara"},
	{740, "SR", "Suriname"},
	{748, "SZ", "Eswatini"},
	{752, "SE", "Sweden"},
	{756, "CH", "Switzerland"},
	{760, "SY", "Syria"},
	{762, "TJ", "Tajikistan"},
	{764, "TH", "Thailand"},
	{768, "TG", "Togo"},
	{780, "TT", "Trinidad and Tobago"},
	{784, "AE", "United Arab Emirates"},
	{788, "TN", "Tunisia"},
	{792, "TR", "Turkey"},
	{795, "TM", "Turkmenistan"},
	{800, "UG", "Uganda"},
	{804, "UA", "Ukraine"},
	{807, "MK", "North Macedonia"},
	{818, "EG", "Egypt"},
	{826, "GB", "United Kingdom"},
	{834, "TZ", "Tanzania"},
	{840, "US", "United States"},
	{854, "BF", "Burkina Faso"},
	{858, "UY", "Uruguay"},
	{860, "UZ", "Uzbekistan"},
	{862, "VE", "Venezuela"},
	{887, "YE", "Yemen"},
	{894, "ZM", "Zambia"},
}
