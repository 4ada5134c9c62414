// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/hasys/mapper-xml/cmd/beanwire/cli"
	"github.com/hasys/mapper-xml/lib/mapper"
)

func TestParseCompression(t *testing.T) {
	for _, name := range []string{"none", "zstd", "lz4"} {
		got, err := ParseCompression(name)
		if err != nil {
			t.Errorf("ParseCompression(%q): %v", name, err)
		}
		if string(got) != name {
			t.Errorf("ParseCompression(%q) = %q", name, got)
		}
	}
	if _, err := ParseCompression("gzip"); err == nil {
		t.Error("expected an error for gzip")
	}
}

func TestCompressRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("beanwire payload "), 64)
	for _, compression := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(string(compression), func(t *testing.T) {
			compressed, err := Compress(payload, compression)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			if compression != CompressionNone && len(compressed) >= len(payload) {
				t.Errorf("compressed %d bytes to %d", len(payload), len(compressed))
			}
			decompressed, detected, err := Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if detected != compression {
				t.Errorf("detected %q, want %q", detected, compression)
			}
			if !bytes.Equal(decompressed, payload) {
				t.Error("payload changed in round trip")
			}
		})
	}
}

func TestDecompressTruncatedFrame(t *testing.T) {
	if _, _, err := Decompress(zstdMagic); err == nil {
		t.Error("expected an error for a zstd magic number with no frame")
	}
}

func TestEncodeDecode(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	options := mapper.DefaultOptions()
	for _, compression := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(string(compression), func(t *testing.T) {
			encoded, err := Encode(`{"b":[1,2.5,null],"a":"x"}`, compression, options)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			text, err := Decode(encoded, options, logger)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if want := `{"a":"x","b":[1,2.5,null]}`; text != want {
				t.Errorf("got %s, want %s", text, want)
			}
		})
	}
}

func TestEncodeInvalidDocument(t *testing.T) {
	_, err := Encode(`{"a":`, CompressionNone, mapper.DefaultOptions())
	var toolErr *cli.ToolError
	if !errors.As(err, &toolErr) || toolErr.ExitCode() != 2 {
		t.Errorf("got %v, want a validation error", err)
	}
}

func TestDecodeHexIndented(t *testing.T) {
	data, err := cli.DecodeHex([]byte("a1 61 61 01\n"))
	if err != nil {
		t.Fatalf("DecodeHex: %v", err)
	}
	options := mapper.DefaultOptions()
	options.Indent = "  "
	text, err := Decode(data, options, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if want := "{\n  \"a\": 1\n}"; text != want {
		t.Errorf("got %q, want %q", text, want)
	}
}

func TestWriteEncoded(t *testing.T) {
	var buffer bytes.Buffer
	if err := writeEncoded(&buffer, []byte{0xa1, 0x61}, true); err != nil {
		t.Fatal(err)
	}
	if buffer.String() != "a161\n" {
		t.Errorf("got %q", buffer.String())
	}
	buffer.Reset()
	if err := writeEncoded(&buffer, []byte{0xa1, 0x61}, false); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buffer.Bytes(), []byte{0xa1, 0x61}) {
		t.Errorf("got %x", buffer.Bytes())
	}
}

func TestDiag(t *testing.T) {
	encoded, err := Encode(`["x",7]`, CompressionLZ4, mapper.DefaultOptions())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	notation, err := Diag(encoded)
	if err != nil {
		t.Fatalf("Diag: %v", err)
	}
	if notation != `["x", 7]` {
		t.Errorf("got %q", notation)
	}
	if _, err := Diag([]byte{0xff}); err == nil || !strings.Contains(err.Error(), "diagnose") {
		t.Errorf("got %v, want a diagnose error", err)
	}
}

func TestCommandTree(t *testing.T) {
	command := Command()
	var names []string
	for _, sub := range command.Subcommands {
		names = append(names, sub.Name)
	}
	if strings.Join(names, ",") != "encode,decode,diag" {
		t.Errorf("got subcommands %v", names)
	}
}
