package vat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleAADEBody = `<Envelope>
  <Body>
    <rgWsPublic2AfmMethodResponse>
      <result>
        <rg_ws_public2_result_rtType>
          <basic_rec>
            <afm>123456789</afm>
            <onomasia>Test Company</onomasia>
            <doy_descr>ΔΟΥ ΑΘΗΝΩΝ</doy_descr>
            <deactivation_flag>1</deactivation_flag>
            <postal_address>ΕΡΜΟΥ</postal_address>
            <postal_address_no>12</postal_address_no>
            <postal_area_description>ΑΘΗΝΑ</postal_area_description>
            <postal_zip_code>11145</postal_zip_code>
          </basic_rec>
          <firm_act_tab>
            <item>
              <firm_act_descr>ΛΙΑΝΙΚΟ ΕΜΠΟΡΙΟ</firm_act_descr>
            </item>
            <item>
              <firm_act_descr>ΧΟΝΔΡΙΚΟ ΕΜΠΟΡΙΟ</firm_act_descr>
            </item>
          </firm_act_tab>
        </rg_ws_public2_result_rtType>
      </result>
    </rgWsPublic2AfmMethodResponse>
  </Body>
</Envelope>`

func TestExtractField(t *testing.T) {
	assert.Equal(t, "Test Company", ExtractField(sampleAADEBody, "onomasia"))
	assert.Equal(t, "ΔΟΥ ΑΘΗΝΩΝ", ExtractField(sampleAADEBody, "doy_descr"))
	assert.Equal(t, "1", ExtractField(sampleAADEBody, "deactivation_flag"))
	assert.Equal(t, "11145", ExtractField(sampleAADEBody, "postal_zip_code"))
}

func TestExtractFieldAbsent(t *testing.T) {
	assert.Equal(t, "", ExtractField(sampleAADEBody, "no_such_field"))

	// Same element name outside basic_rec does not count.
	body := `<Envelope><other><onomasia>Wrong</onomasia></other></Envelope>`
	assert.Equal(t, "", ExtractField(body, "onomasia"))
}

func TestExtractFieldMalformedBody(t *testing.T) {
	assert.Equal(t, "", ExtractField("<html><body>503 Service Unavailable", "onomasia"))
	assert.Equal(t, "", ExtractField("", "onomasia"))
	assert.Equal(t, "", ExtractField("not xml at all", "onomasia"))
}

func TestExtractActivities(t *testing.T) {
	assert.Equal(t,
		[]string{"ΛΙΑΝΙΚΟ ΕΜΠΟΡΙΟ", "ΧΟΝΔΡΙΚΟ ΕΜΠΟΡΙΟ"},
		ExtractActivities(sampleAADEBody))
}

func TestExtractActivitiesNone(t *testing.T) {
	body := `<Envelope><basic_rec><afm>1</afm></basic_rec></Envelope>`
	assert.Nil(t, ExtractActivities(body))
	assert.Nil(t, ExtractActivities("<broken"))
}
