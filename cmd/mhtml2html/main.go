// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	mhtml2html "github.com/jonathanKingston/mhtml2html"
)

var version = "dev"

func main() {
	var (
		output      string
		iframes     bool
		strict      bool
		showVersion bool
	)

	flag.StringVar(&output, "o", "", "Output file (default: stdout)")
	flag.StringVar(&output, "output", "", "Output file (default: stdout)")
	flag.BoolVar(&iframes, "iframes", false, "Recursively inline cid: iframes as data: documents")
	flag.BoolVar(&strict, "strict", false, "Reject archives lenient parsing would repair")
	flag.BoolVar(&showVersion, "v", false, "Show version")
	flag.BoolVar(&showVersion, "version", false, "Show version")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mhtml2html [flags] [source]\n\n")
		fmt.Fprintf(os.Stderr, "Convert an MHTML archive to a self-contained HTML document.\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  source    .mht/.mhtml file to convert (reads stdin if omitted)\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("mhtml2html %s\n", version)
		os.Exit(0)
	}

	var data []byte
	var err error

	if args := flag.Args(); len(args) == 0 {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
	} else {
		data, err = os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	opts := []mhtml2html.Option{
		mhtml2html.WithConvertIframes(iframes),
		mhtml2html.WithStrict(strict),
	}

	doc, err := mhtml2html.Convert(data, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rendered, err := doc.HTML()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if output != "" {
		if dir := filepath.Dir(output); dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		if writeErr := os.WriteFile(output, []byte(rendered+"\n"), 0o644); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", writeErr)
			os.Exit(1)
		}
	} else {
		fmt.Println(rendered)
	}
}
