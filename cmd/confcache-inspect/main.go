// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/confcache/lib/codec"
	"github.com/bureau-foundation/confcache/lib/graph"
	"github.com/bureau-foundation/confcache/lib/provider"
	"github.com/bureau-foundation/confcache/lib/statefile"
	"github.com/bureau-foundation/confcache/lib/stream"
	"github.com/bureau-foundation/confcache/lib/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("confcache-inspect %s\n", version.Info())
		return 0
	}

	flagSet := pflag.NewFlagSet("confcache-inspect", pflag.ContinueOnError)
	filePath := flagSet.String("file", "", "path to the state file to inspect")
	fallback := flagSet.String("fallback", "cbor", "fallback value codec the file was written with (cbor or msgpack)")
	asJSON := flagSet.Bool("json", false, "print entries as JSON")
	raw := flagSet.Bool("raw", false, "render stored values in CBOR diagnostic notation instead of decoding them (cbor fallback only)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if *filePath == "" {
		fmt.Fprintf(os.Stderr, "error: --file is required\n")
		return 2
	}

	options := graph.Options{}
	switch *fallback {
	case "cbor":
		options.Values = graph.CBORValueCodec{}
		if *raw {
			options.Values = graph.RawValueCodec{}
		}
	case "msgpack":
		if *raw {
			fmt.Fprintf(os.Stderr, "error: --raw requires --fallback=cbor\n")
			return 2
		}
		options.Values = graph.MsgpackValueCodec{}
	default:
		fmt.Fprintf(os.Stderr, "error: --fallback must be cbor or msgpack, got %q\n", *fallback)
		return 2
	}

	entries, err := decodeFile(*filePath, options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if *asJSON {
		return printJSON(entries)
	}
	printText(entries)
	return 0
}

func decodeFile(path string, options graph.Options) ([]graph.Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	payload, err := statefile.Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	decoder := graph.NewDecoder(stream.NewReader(bytes.NewReader(payload)), options)
	entries, err := decoder.DecodeEntries()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// entryView is the flattened presentation of one entry.
type entryView struct {
	Key   string `json:"key"`
	Shape string `json:"shape"`
	Types string `json:"types"`
	State string `json:"state"`
	Value string `json:"value,omitempty"`
}

func viewOf(entry graph.Entry) entryView {
	view := entryView{Key: entry.Key}

	var p provider.Provider
	switch property := entry.Property.(type) {
	case *provider.Property:
		view.Shape, view.Types, p = "scalar", string(property.Type), property.Provider
	case *provider.ListProperty:
		view.Shape, view.Types, p = "list", string(property.ElementType), property.Provider
	case *provider.SetProperty:
		view.Shape, view.Types, p = "set", string(property.ElementType), property.Provider
	case *provider.MapProperty:
		view.Shape, p = "map", property.Provider
		view.Types = fmt.Sprintf("%s -> %s", property.KeyType, property.ValueType)
	case *provider.DirectoryProperty:
		view.Shape, view.Types, p = "directory", string(property.Type), property.Provider
	case *provider.RegularFileProperty:
		view.Shape, view.Types, p = "file", string(property.Type), property.Provider
	default:
		view.Shape = fmt.Sprintf("unknown(%T)", entry.Property)
		return view
	}

	value := provider.Resolve(context.Background(), p)
	view.State = value.State().String()
	switch value.State() {
	case provider.StateFixed:
		view.Value = renderValue(value.Fixed())
	case provider.StateBroken:
		view.Value = value.Err().Error()
	case provider.StateChanging:
		view.Value = describeChanging(value.Inner())
	}
	return view
}

// renderValue prints a decoded value. Raw CBOR blocks from the raw
// value codec render in diagnostic notation rather than as a byte
// dump.
func renderValue(v any) string {
	if raw, ok := v.(codec.RawMessage); ok {
		notation, err := codec.Diagnose(raw)
		if err != nil {
			return fmt.Sprintf("<%d bytes, not valid CBOR>", len(raw))
		}
		return notation
	}
	return fmt.Sprintf("%v", v)
}

func describeChanging(inner any) string {
	switch v := inner.(type) {
	case *provider.SourceProvider:
		return fmt.Sprintf("value source %s(%s)", v.Source().SourceType, v.Source().ParametersType)
	case *provider.ServiceProvider:
		return describeService(v.Service())
	case *provider.ManagedService:
		return describeService(v)
	default:
		return fmt.Sprintf("%v", inner)
	}
}

func describeService(service *provider.ManagedService) string {
	return fmt.Sprintf("service %q (%s, max usages %d)", service.Name, service.ImplementationType, service.MaxUsages)
}

func printText(entries []graph.Entry) {
	for _, entry := range entries {
		view := viewOf(entry)
		fmt.Printf("%-30s %-9s %-40s %-8s %s\n", view.Key, view.Shape, view.Types, view.State, view.Value)
	}
}

func printJSON(entries []graph.Entry) int {
	views := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, viewOf(entry))
	}
	output, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Println(string(output))
	return 0
}
