package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplateXML = `<?xml version="1.0" encoding="UTF-8"?>
<Container version="2">
  <Name>Bambuddy</Name>
  <Repository>ghcr.io/maziggy/bambuddy:latest</Repository>
  <Registry>https://ghcr.io</Registry>
  <Network>bridge</Network>
  <Shell>sh</Shell>
  <Privileged>false</Privileged>
  <Support>https://github.com/maziggy/bambuddy/issues</Support>
  <Project>https://github.com/maziggy/bambuddy</Project>
  <Overview>Companion app for Bambu Lab printers.</Overview>
  <Category>Tools:</Category>
  <WebUI>http://[IP]:[PORT:8080]</WebUI>
  <TemplateURL>https://raw.githubusercontent.com/fgrfn/unraid-templates/main/templates/Bambuddy/my-Bambuddy.xml</TemplateURL>
  <Icon>https://raw.githubusercontent.com/maziggy/bambuddy/main/static/logo.png</Icon>
  <ExtraParams></ExtraParams>
  <PostArgs></PostArgs>
  <CPUset></CPUset>
  <DateInstalled></DateInstalled>
  <DonateText></DonateText>
  <DonateLink></DonateLink>
  <Requires></Requires>
  <Config Name="WebUI Port" Target="8080" Default="8080" Mode="tcp" Description="Web interface port" Type="Port" Display="always" Required="true" Mask="false">8080</Config>
  <Config Name="Appdata" Target="/app/data" Default="/mnt/user/appdata/bambuddy" Mode="rw" Description="Application data" Type="Path" Display="always" Required="true" Mask="false">/mnt/user/appdata/bambuddy</Config>
  <Config Name="TZ" Target="TZ" Default="Europe/Berlin" Mode="env" Description="Time zone" Type="Variable" Display="advanced" Required="false" Mask="false">Europe/Berlin</Config>
</Container>
`

// writeTestTemplate drops the fixture template into a temp dir and returns
// its path
func writeTestTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "my-Bambuddy.xml")
	require.NoError(t, os.WriteFile(path, []byte(testTemplateXML), 0644))
	return path
}

// TestLoad_ValidTemplate_ParsesMetadataAndConfigs tests the full field set
func TestLoad_ValidTemplate_ParsesMetadataAndConfigs(t *testing.T) {
	tpl, err := Load(writeTestTemplate(t))
	require.NoError(t, err)

	assert.Equal(t, "2", tpl.Version)
	assert.Equal(t, "Bambuddy", tpl.Name)
	assert.Equal(t, "ghcr.io/maziggy/bambuddy:latest", tpl.Repository)
	assert.Equal(t, "bridge", tpl.Network)
	assert.Equal(t, "http://[IP]:[PORT:8080]", tpl.WebUI)
	require.Len(t, tpl.Configs, 3)

	tz := tpl.Configs[2]
	assert.Equal(t, "TZ", tz.Name)
	assert.Equal(t, "TZ", tz.Target)
	assert.Equal(t, "Europe/Berlin", tz.Default)
	assert.Equal(t, ModeEnv, tz.Mode)
	assert.Equal(t, TypeVariable, tz.Type)
	assert.Equal(t, "Europe/Berlin", tz.Value)
}

// TestLoad_MissingFile_WrapsNotExist tests that a missing template is
// distinguishable from a malformed one
func TestLoad_MissingFile_WrapsNotExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "my-Missing.xml"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "template file not found")
}

// TestLoad_MalformedXML_ReturnsParseError tests the parse failure branch
func TestLoad_MalformedXML_ReturnsParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my-Broken.xml")
	require.NoError(t, os.WriteFile(path, []byte("<Container><Name>oops"), 0644))

	_, err := Load(path)

	require.Error(t, err)
	assert.NotErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "failed to parse template")
}

// TestEnvDefaults_FiltersRuntimeSettings tests that only Mode="env" records
// contribute to the environment surface
func TestEnvDefaults_FiltersRuntimeSettings(t *testing.T) {
	tpl, err := Load(writeTestTemplate(t))
	require.NoError(t, err)

	vars := tpl.EnvDefaults()

	assert.Equal(t, map[string]string{"TZ": "Europe/Berlin"}, vars,
		"port and path records must not appear in the environment surface")
}

// TestAppendEnv_SetsAllRecordFields tests the shape of appended records
func TestAppendEnv_SetsAllRecordFields(t *testing.T) {
	tpl := &Template{}

	tpl.AppendEnv("API_KEY", "", "", "", true, true)

	require.Len(t, tpl.Configs, 1)
	c := tpl.Configs[0]
	assert.Equal(t, "API_KEY", c.Name)
	assert.Equal(t, "API_KEY", c.Target)
	assert.Equal(t, "", c.Default)
	assert.Equal(t, ModeEnv, c.Mode)
	assert.Equal(t, "Environment variable: API_KEY", c.Description, "empty description should fall back to a generated label")
	assert.Equal(t, TypeVariable, c.Type)
	assert.Equal(t, DisplayAdvanced, c.Display, "empty display should fall back to advanced")
	assert.Equal(t, "true", c.Required)
	assert.Equal(t, "true", c.Mask)
	assert.Equal(t, "", c.Value)
}

// TestAppendEnv_PreservesExistingOrder tests that records are appended, not
// reordered
func TestAppendEnv_PreservesExistingOrder(t *testing.T) {
	tpl, err := Load(writeTestTemplate(t))
	require.NoError(t, err)

	tpl.AppendEnv("APP_PORT", "8000", "Environment variable: APP_PORT", DisplayAdvanced, false, false)

	require.Len(t, tpl.Configs, 4)
	assert.Equal(t, "WebUI Port", tpl.Configs[0].Name)
	assert.Equal(t, "Appdata", tpl.Configs[1].Name)
	assert.Equal(t, "TZ", tpl.Configs[2].Name)
	assert.Equal(t, "APP_PORT", tpl.Configs[3].Name)
}

// TestSave_RoundTrip_PreservesDocument tests that save/load round trips the
// whole document and leaves no temp file behind
func TestSave_RoundTrip_PreservesDocument(t *testing.T) {
	path := writeTestTemplate(t)
	tpl, err := Load(path)
	require.NoError(t, err)

	tpl.AppendEnv("APP_PORT", "8000", "", "", false, false)
	require.NoError(t, tpl.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml"), "file should start with an XML declaration")
	assert.NoFileExists(t, path+".new", "temp file should be renamed away")

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tpl.Name, reloaded.Name)
	assert.Equal(t, tpl.Overview, reloaded.Overview)
	assert.Equal(t, tpl.Configs, reloaded.Configs)
}

// TestSave_IsDeterministic tests that saving twice produces identical bytes
func TestSave_IsDeterministic(t *testing.T) {
	path := writeTestTemplate(t)
	tpl, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, tpl.Save(path))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, reloaded.Save(path))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

// TestDiscover_SkipsBlankTemplateAndNonXML tests repository scanning
func TestDiscover_SkipsBlankTemplateAndNonXML(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(rel string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(testTemplateXML), 0644))
	}
	mustWrite("Bambuddy/my-Bambuddy.xml")
	mustWrite("Scan2Target/my-Scan2Target.xml")
	mustWrite("blank-template.xml")
	mustWrite("Bambuddy/notes.txt")

	paths, err := Discover(dir)
	require.NoError(t, err)

	expected := []string{
		filepath.Join(dir, "Bambuddy", "my-Bambuddy.xml"),
		filepath.Join(dir, "Scan2Target", "my-Scan2Target.xml"),
	}
	assert.Equal(t, expected, paths)
}

// TestDiscover_MissingDirectory_ReturnsError tests the error path
func TestDiscover_MissingDirectory_ReturnsError(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
