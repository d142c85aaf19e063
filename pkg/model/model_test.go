package model

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rendererDescription = `<?xml version="1.0"?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
  <specVersion><major>1</major><minor>0</minor></specVersion>
  <device>
    <deviceType>urn:schemas-upnp-org:device:MediaRenderer:1</deviceType>
    <friendlyName>Living Room</friendlyName>
    <manufacturer>Acme</manufacturer>
    <modelName>Renderer 3000</modelName>
    <UDN>uuid:11111111-2222-3333-4444-555555555555</UDN>
    <serviceList>
      <service>
        <serviceType>urn:schemas-upnp-org:service:RenderingControl:1</serviceType>
        <serviceId>urn:upnp-org:serviceId:RenderingControl</serviceId>
        <SCPDURL>/rc/scpd.xml</SCPDURL>
        <controlURL>/rc/control</controlURL>
        <eventSubURL>/rc/event</eventSubURL>
      </service>
      <service>
        <serviceType>urn:schemas-upnp-org:service:AVTransport:1</serviceType>
        <serviceId>urn:upnp-org:serviceId:AVTransport</serviceId>
        <SCPDURL>avt/scpd.xml</SCPDURL>
        <controlURL>avt/control</controlURL>
        <eventSubURL>avt/event</eventSubURL>
      </service>
      <service>
        <serviceType>urn:schemas-upnp-org:service:ConnectionManager:1</serviceType>
        <serviceId>urn:upnp-org:serviceId:ConnectionManager</serviceId>
        <SCPDURL>/cm/scpd.xml</SCPDURL>
        <controlURL>/cm/control</controlURL>
        <eventSubURL>/cm/event</eventSubURL>
      </service>
    </serviceList>
  </device>
</root>`

const renderingControlSCPD = `<?xml version="1.0"?>
<scpd xmlns="urn:schemas-upnp-org:service-1-0">
  <serviceStateTable>
    <stateVariable sendEvents="no">
      <name>Volume</name>
      <dataType>ui2</dataType>
      <allowedValueRange>
        <minimum>10</minimum>
        <maximum>90</maximum>
        <step>5</step>
      </allowedValueRange>
    </stateVariable>
    <stateVariable sendEvents="no">
      <name>VolumeDB</name>
      <dataType>i2</dataType>
      <allowedValueRange>
        <minimum>-10240</minimum>
        <maximum>0</maximum>
      </allowedValueRange>
    </stateVariable>
    <stateVariable sendEvents="no">
      <name>A_ARG_TYPE_Channel</name>
      <dataType>string</dataType>
      <allowedValueList>
        <allowedValue>Master</allowedValue>
      </allowedValueList>
    </stateVariable>
    <stateVariable>
      <name>LastChange</name>
      <dataType>string</dataType>
    </stateVariable>
  </serviceStateTable>
</scpd>`

func TestParseDescription(t *testing.T) {
	d, err := ParseDescription(strings.NewReader(rendererDescription), "http://10.0.0.5:49152/dev/desc.xml")
	require.NoError(t, err)

	assert.Equal(t, "uuid:11111111-2222-3333-4444-555555555555", d.UDN)
	assert.Equal(t, "Living Room", d.FriendlyName)
	assert.Equal(t, "Acme", d.Manufacturer)
	assert.Equal(t, "Renderer 3000", d.ModelName)
	assert.Equal(t, "http://10.0.0.5:49152/dev/desc.xml", d.Location)
	assert.Equal(t, "1.0", d.SpecVersion)
	assert.Len(t, d.Services(), 3)

	rc, ok := d.Service(ServiceRenderingControl)
	require.True(t, ok)
	assert.Equal(t, "http://10.0.0.5:49152/rc/control", rc.ControlURL)
	assert.Equal(t, "http://10.0.0.5:49152/rc/scpd.xml", rc.SCPDURL)
	assert.Equal(t, 1, rc.Version())

	// Relative URLs resolve against the description's directory.
	avt, ok := d.Service(ServiceAVTransport)
	require.True(t, ok)
	assert.Equal(t, "http://10.0.0.5:49152/dev/avt/control", avt.ControlURL)
}

func TestParseDescriptionURLBase(t *testing.T) {
	doc := strings.Replace(rendererDescription,
		"<device>", "<URLBase>http://192.168.1.20:8080/</URLBase><device>", 1)

	d, err := ParseDescription(strings.NewReader(doc), "http://10.0.0.5:49152/dev/desc.xml")
	require.NoError(t, err)

	avt, ok := d.Service("urn:schemas-upnp-org:service:AVTransport:1")
	require.True(t, ok)
	assert.Equal(t, "http://192.168.1.20:8080/avt/control", avt.ControlURL)
}

func TestParseDescriptionEmbeddedDevice(t *testing.T) {
	doc := `<root xmlns="urn:schemas-upnp-org:device-1-0"><device>
  <deviceType>urn:schemas-upnp-org:device:Basic:1</deviceType>
  <UDN>uuid:root</UDN>
  <deviceList><device>
    <deviceType>urn:schemas-upnp-org:device:MediaRenderer:1</deviceType>
    <UDN>uuid:renderer</UDN>
    <serviceList><service>
      <serviceType>urn:schemas-upnp-org:service:RenderingControl:2</serviceType>
      <controlURL>http://other:1/rc</controlURL>
    </service></serviceList>
  </device></deviceList>
</device></root>`

	d, err := ParseDescription(strings.NewReader(doc), "http://host/desc.xml")
	require.NoError(t, err)
	assert.Empty(t, d.Services())
	require.Len(t, d.Devices(), 1)

	rc, ok := d.Service(ServiceRenderingControl)
	require.True(t, ok)
	assert.Equal(t, "http://other:1/rc", rc.ControlURL)
	assert.Equal(t, 2, rc.Version())
}

func TestParseDescriptionErrors(t *testing.T) {
	_, err := ParseDescription(strings.NewReader("<root/>"), "http://host/")
	assert.ErrorIs(t, err, ErrNoDevice)

	_, err = ParseDescription(strings.NewReader("<root"), "http://host/")
	assert.Error(t, err)

	dup := strings.Replace(rendererDescription, "ConnectionManager:1", "AVTransport:1", 1)
	_, err = ParseDescription(strings.NewReader(dup), "http://host/")
	assert.ErrorIs(t, err, ErrDuplicateService)
}

func TestParseSCPD(t *testing.T) {
	vars, err := ParseSCPD(strings.NewReader(renderingControlSCPD))
	require.NoError(t, err)
	require.Len(t, vars, 4)

	vol := vars[0]
	assert.Equal(t, "Volume", vol.Name)
	assert.Equal(t, DataTypeUI2, vol.DataType)
	assert.False(t, vol.SendEvents)
	assert.True(t, vol.IsNumeric())
	require.NotNil(t, vol.AllowedValueRange)
	assert.Equal(t, AllowedValueRange{Minimum: 10, Maximum: 90, Step: 5}, *vol.AllowedValueRange)

	// Missing step defaults to 1.
	require.NotNil(t, vars[1].AllowedValueRange)
	assert.Equal(t, AllowedValueRange{Minimum: -10240, Maximum: 0, Step: 1}, *vars[1].AllowedValueRange)

	assert.Equal(t, []string{"Master"}, vars[2].AllowedValues)
	assert.Nil(t, vars[2].AllowedValueRange)
	assert.False(t, vars[2].IsNumeric())

	assert.True(t, vars[3].SendEvents)
}

func TestParseSCPDBadRange(t *testing.T) {
	doc := `<scpd><serviceStateTable><stateVariable>
<name>Volume</name><dataType>ui2</dataType>
<allowedValueRange><minimum>low</minimum><maximum>100</maximum></allowedValueRange>
</stateVariable></serviceStateTable></scpd>`

	vars, err := ParseSCPD(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, vars, 1)
	assert.Nil(t, vars[0].AllowedValueRange)
}

func TestServiceName(t *testing.T) {
	s := NewService("urn:schemas-upnp-org:service:AVTransport:3", "")
	assert.Equal(t, "AVTransport", s.Name())
	assert.Equal(t, 3, s.Version())
	assert.True(t, s.Matches("AVTransport"))
	assert.True(t, s.Matches("urn:schemas-upnp-org:service:AVTransport:3"))
	assert.False(t, s.Matches("urn:schemas-upnp-org:service:AVTransport:1"))
	assert.False(t, s.Matches(""))

	vendor := NewService("urn:schemas-sony-com:service:IRCC:1", "")
	assert.Equal(t, "IRCC", vendor.Name())

	odd := NewService("custom", "")
	assert.Equal(t, "custom", odd.Name())
	assert.Equal(t, 0, odd.Version())
}

func TestDirectory(t *testing.T) {
	var dir Directory

	d := NewDevice("uuid:x", "Kitchen")
	rc := NewService("urn:schemas-upnp-org:service:RenderingControl:1", "http://host/rc")
	rc.AddStateVariable(&StateVariable{
		Name:              "Volume",
		DataType:          DataTypeUI2,
		AllowedValueRange: &AllowedValueRange{Minimum: 0, Maximum: 60, Step: 2},
	})
	rc.AddStateVariable(&StateVariable{
		Name:              "Loudness",
		DataType:          DataTypeUI2,
		AllowedValueRange: &AllowedValueRange{Minimum: 50, Maximum: 10, Step: 1},
	})
	rc.AddStateVariable(&StateVariable{Name: "Mute", DataType: DataTypeBoolean})
	require.NoError(t, d.AddService(rc))

	t.Run("Lookup", func(t *testing.T) {
		svc, ok := dir.Lookup(d, ServiceRenderingControl)
		assert.True(t, ok)
		assert.Same(t, rc, svc)

		_, ok = dir.Lookup(d, ServiceAVTransport)
		assert.False(t, ok)

		_, ok = dir.Lookup(nil, ServiceRenderingControl)
		assert.False(t, ok)
	})

	t.Run("AllowedValueRange", func(t *testing.T) {
		r, ok := dir.AllowedValueRange(rc, "Volume")
		assert.True(t, ok)
		assert.Equal(t, AllowedValueRange{Minimum: 0, Maximum: 60, Step: 2}, r)

		_, ok = dir.AllowedValueRange(rc, "Mute")
		assert.False(t, ok)

		_, ok = dir.AllowedValueRange(rc, "Missing")
		assert.False(t, ok)

		_, ok = dir.AllowedValueRange(rc, "Loudness")
		assert.False(t, ok, "inverted range is treated as absent")

		_, ok = dir.AllowedValueRange(nil, "Volume")
		assert.False(t, ok)
	})
}

func TestAllowedValueRangeClamp(t *testing.T) {
	r := AllowedValueRange{Minimum: 10, Maximum: 90, Step: 5}
	assert.Equal(t, int64(10), r.Clamp(-5))
	assert.Equal(t, int64(10), r.Clamp(10))
	assert.Equal(t, int64(42), r.Clamp(42))
	assert.Equal(t, int64(90), r.Clamp(150))
	assert.Equal(t, "[10..90 step 5]", r.String())
}

func TestLoader(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dev/desc.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rendererDescription))
	})
	mux.HandleFunc("/rc/scpd.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(renderingControlSCPD))
	})
	// AVTransport SCPD is missing; ConnectionManager must never be requested.
	var cmRequested bool
	mux.HandleFunc("/cm/scpd.xml", func(w http.ResponseWriter, r *http.Request) {
		cmRequested = true
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	loader := NewLoader(DefaultLoaderConfig())
	d, err := loader.Load(context.Background(), srv.URL+"/dev/desc.xml")
	require.NoError(t, err)

	rc, ok := d.Service(ServiceRenderingControl)
	require.True(t, ok)
	assert.Equal(t, 4, rc.StateVariableCount())

	var names []string
	for _, v := range rc.StateVariables() {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"A_ARG_TYPE_Channel", "LastChange", "Volume", "VolumeDB"}, names)

	r, ok := Directory{}.AllowedValueRange(rc, "Volume")
	require.True(t, ok)
	assert.Equal(t, int64(90), r.Maximum)

	avt, ok := d.Service(ServiceAVTransport)
	require.True(t, ok)
	assert.Equal(t, 0, avt.StateVariableCount())
	assert.False(t, cmRequested)
}

func TestLoaderDescriptionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewLoader(DefaultLoaderConfig()).Load(context.Background(), srv.URL+"/desc.xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 404")
}

func TestLoaderCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rendererDescription))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(DefaultLoaderConfig()).Load(ctx, srv.URL+"/dev/desc.xml")
	assert.ErrorIs(t, err, context.Canceled)
}
