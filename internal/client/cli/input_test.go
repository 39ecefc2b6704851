package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	require.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.ErrorIs(t, err, io.EOF)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()

	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }
	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	require.Equal(t, []byte("secret"), pw)
	require.Equal(t, "Enter password: \n", out.String())

	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	_, err = GetPassword(&out)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetWithDefault(t *testing.T) {
	var out bytes.Buffer

	got, err := GetWithDefault(rdr("\n"), "Nationality", "Indian", &out)
	require.NoError(t, err)
	require.Equal(t, "Indian", got)
	require.Contains(t, out.String(), "Nationality [Indian]")

	got, err = GetWithDefault(rdr("Nepali\n"), "Nationality", "Indian", &out)
	require.NoError(t, err)
	require.Equal(t, "Nepali", got)
}

func TestGetChoice(t *testing.T) {
	opts := []string{"Male", "Female", "Other"}
	tests := []struct {
		name  string
		input string
		def   string
		want  string
	}{
		{"by number", "2\n", "", "Female"},
		{"by name ignoring case", "other\n", "", "Other"},
		{"default", "\n", "Male", "Male"},
		{"retries until valid", "7\nnope\n1\n", "", "Male"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetChoice(rdr(tc.input), "Gender", opts, tc.def, &out)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	t.Run("eof", func(t *testing.T) {
		var out bytes.Buffer
		_, err := GetChoice(rdr(""), "Gender", opts, "", &out)
		require.Error(t, err)
	})
}

func TestGetInt(t *testing.T) {
	var out bytes.Buffer
	got, err := GetInt(rdr("0\nabc\n11\n3\n"), "How many?", 1, 10, &out)
	require.NoError(t, err)
	require.Equal(t, 3, got)
	require.Equal(t, 3, strings.Count(out.String(), "Please enter a number between 1 and 10."))
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"Food", "Beach"}, SplitList(" Food , ,Beach,"))
	require.Equal(t, []string{}, SplitList(""))
}
