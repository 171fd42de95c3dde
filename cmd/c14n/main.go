// Command c14n reads an XML document on stdin and writes its canonical form
// to stdout.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/canonxml/c14n"
	"github.com/canonxml/c14n/dom"
)

func main() {
	algorithm := flag.String("algorithm", c14n.AlgorithmExclusive, "canonicalization algorithm URI")
	sel := flag.String("select", "", "XPath expression choosing the node-set to serialize")
	flag.Parse()

	doc, err := dom.Parse(os.Stdin)
	if err != nil {
		fail(err)
	}
	out, err := c14n.NewWithAlgorithm(os.Stdout, *algorithm)
	if err != nil {
		fail(err)
	}
	if *sel != "" {
		err = out.WriteSelected(doc, *sel, nil)
	} else {
		err = out.Write(doc)
	}
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "c14n:", err)
	os.Exit(1)
}
