package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	nodeAttrHex = "01070004002a002b" + "04000001bc" + "0402000531324b2d32" +
		"0403000172" + "0403000173" + "0404000429292929"

	nodeNlriHex = "00010030" + "02" + "0000000000000001" + "01000023" +
		"0200000400000048" + "0201000428282828" + "0202000400292929" +
		"0203000700000000003905"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestAttrCmd(t *testing.T) {
	out, err := runCmd(t, "attr", nodeAttrHex, "--object", "node", "--protocol", "isis-l1")
	require.Nil(t, err)

	assert.Contains(t, out, "name: 12K-2")
	assert.Contains(t, out, "ipv4routerid: 41.41.41.41")
	assert.Contains(t, out, "overload: true")
}

func TestAttrCmdUnknownObject(t *testing.T) {
	_, err := runCmd(t, "attr", nodeAttrHex, "--object", "tunnel")
	assert.NotNil(t, err)
}

func TestNlriCmdText(t *testing.T) {
	out, err := runCmd(t, "nlri", nodeNlriHex, "--format", "text")
	require.Nil(t, err)

	assert.Contains(t, out, "LinkStateNlriNode")
	assert.Contains(t, out, "IgpRouterIDIsIsPseudo")
}

func TestNlriCmdEnvFormat(t *testing.T) {
	t.Setenv("LSDECODE_FORMAT", "text")

	out, err := runCmd(t, "nlri", nodeNlriHex)
	require.Nil(t, err)
	assert.Contains(t, out, "LinkStateNlriNode")
}

func TestNlriCmdInvalidHex(t *testing.T) {
	_, err := runCmd(t, "nlri", "zz")
	assert.NotNil(t, err)
}

func TestStats(t *testing.T) {
	// unknown node attribute 4095 is skipped
	out, err := runCmd(t, "attr", nodeAttrHex+"0fff000100", "--stats")
	require.Nil(t, err)

	assert.Contains(t, out, `bgpls_tlv_skipped_total{context="node-attribute"} 1`)
	assert.Contains(t, out, `bgpls_tlv_decoded_total{context="node-attribute"} 6`)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lsdecode.yaml")
	require.Nil(t, os.WriteFile(path, []byte("format: text\n"), 0o600))

	out, err := runCmd(t, "nlri", nodeNlriHex, "--config", path)
	require.Nil(t, err)
	assert.Contains(t, out, "LinkStateNlriNode")
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lsdecode.log")

	_, err := runCmd(t, "attr", nodeAttrHex+"0fff000100", "--log-level", "debug", "--log-file", path)
	require.Nil(t, err)

	b, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.Contains(t, string(b), "skipping unknown tlv")
}

func TestDecodeHex(t *testing.T) {
	b, err := decodeHex("0x01 02:03\n04")
	assert.Nil(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, b)
}
