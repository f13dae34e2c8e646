package states

// stateDisclosureURLs points each governor-race state at its official
// campaign finance disclosure portal. Candidates link here when their
// finance source does not carry a per-candidate page.
var stateDisclosureURLs = map[string]string{
	"AL": "https://fcpa.alabamavotes.gov",
	"AK": "https://aws.state.ak.us/ApocReports/Campaign/",
	"AZ": "https://seethemoney.az.gov",
	"AR": "https://financial-disclosures.sos.arkansas.gov",
	"CA": "https://cal-access.sos.ca.gov",
	"CO": "https://tracer.sos.colorado.gov",
	"CT": "https://seec.ct.gov/eCrisHome/",
	"FL": "https://dos.elections.myflorida.com/campaign-finance/",
	"GA": "https://media.ethics.ga.gov",
	"HI": "https://ags.hawaii.gov/campaign/",
	"ID": "https://sunshine.sos.idaho.gov",
	"IL": "https://elections.il.gov/CampaignDisclosure/",
	"IA": "https://webapp.iecdb.iowa.gov",
	"KS": "https://ethics.kansas.gov",
	"ME": "https://mainecampaignfinance.com",
	"MD": "https://campaignfinance.maryland.gov",
	"MA": "https://www.ocpf.us",
	"MI": "https://cfrsearch.nictusa.com",
	"MN": "https://cfb.mn.gov",
	"NE": "https://nadc-e.nebraska.gov",
	"NV": "https://aurora.nvsos.gov",
	"NH": "https://cfs.sos.nh.gov",
	"NM": "https://login.cfis.sos.state.nm.us",
	"NY": "https://publicreporting.elections.ny.gov",
	"OH": "https://www.ohiosos.gov/campaign-finance/search/",
	"OK": "https://guardian.ok.gov",
	"OR": "https://secure.sos.state.or.us/orestar",
	"PA": "https://www.campaignfinanceonline.pa.gov",
	"RI": "https://ricampaignfinance.com",
	"SC": "https://ethicsfiling.sc.gov",
	"SD": "https://sdsos.gov",
	"TN": "https://apps.tn.gov/tncamp/",
	"TX": "https://www.ethics.state.tx.us",
	"VT": "https://campaignfinance.vermont.gov",
	"WI": "https://cfis.wi.gov",
	"WY": "https://www.wycampaignfinance.gov",
}

// DisclosureURL returns the state's official disclosure portal, or "" for
// states without one on record.
func DisclosureURL(state string) string {
	return stateDisclosureURLs[state]
}
