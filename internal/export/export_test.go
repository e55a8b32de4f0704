package export

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/crucial707/dosasset/internal/models"
)

func sampleAssets() []models.Asset {
	return []models.Asset{
		{
			ID: "1", Tag: "PC-100", Type: "laptop", Model: "ThinkPad", Serial: "SN1",
			Owner: "alice", Location: "HQ", Status: "active", PurchaseDate: "2024-05-01",
			Notes: `says "hi"`, Audit: []json.RawMessage{},
		},
		{ID: "2", Tag: "PR-1", Type: "printer", Model: "LaserJet", Serial: "SN2", Status: "repair", Audit: []json.RawMessage{}},
	}
}

func TestCSV(t *testing.T) {
	got := string(CSV(sampleAssets()))
	want := "id,tag,type,model,serial,owner,location,status,purchaseDate,notes\n" +
		`"1","PC-100","laptop","ThinkPad","SN1","alice","HQ","active","2024-05-01","says ""hi"""` + "\n" +
		`"2","PR-1","printer","LaserJet","SN2","","","repair","",""`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CSV mismatch (-want +got):\n%s", diff)
	}
}

func TestCSV_Empty(t *testing.T) {
	if got := string(CSV(nil)); got != "id,tag,type,model,serial,owner,location,status,purchaseDate,notes" {
		t.Errorf("CSV(nil) = %q", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	assets := sampleAssets()
	text, err := JSON(assets)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	got, err := ParseJSON(text)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if diff := cmp.Diff(assets, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSON_Invalid(t *testing.T) {
	for _, in := range []string{``, `{}`, `"x"`, `[1,2]`, `[{"tag":1}]`, `not json`} {
		if _, err := ParseJSON([]byte(in)); !errors.Is(err, ErrInvalidJSON) {
			t.Errorf("ParseJSON(%q) err = %v, want ErrInvalidJSON", in, err)
		}
	}
	got, err := ParseJSON([]byte(" [] "))
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("ParseJSON([]) = %v, %v", got, err)
	}
}

func TestEncode(t *testing.T) {
	name, _, mime, err := Encode(FormatCSV, nil)
	if err != nil || name != CSVFileName || mime != CSVMimeType {
		t.Errorf("Encode csv = %q %q %v", name, mime, err)
	}
	name, content, mime, err := Encode(FormatJSON, nil)
	if err != nil || name != JSONFileName || mime != JSONMimeType || string(content) != "[]" {
		t.Errorf("Encode json = %q %q %q %v", name, content, mime, err)
	}
	if _, _, _, err := Encode("xml", nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDirDownloaderAndReadFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	d := DirDownloader{Dir: dir}
	if err := d.Download("../assets.json", []byte("[]"), JSONMimeType); err != nil {
		t.Fatalf("Download: %v", err)
	}
	path := filepath.Join(dir, "assets.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file inside export dir: %v", err)
	}

	res := ReadFile(context.Background(), path)
	if res.Err != nil || string(res.Text) != "[]" {
		t.Errorf("ReadFile = %q, %v", res.Text, res.Err)
	}
	res = ReadFile(context.Background(), filepath.Join(dir, "missing.json"))
	if res.Err == nil {
		t.Error("expected error for missing file")
	}
}
