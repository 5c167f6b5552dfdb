// Command bsondump reads a file holding one or more concatenated BSON
// documents and prints the decoded host values.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/ikmak/bson"
	"github.com/kr/pretty"
)

func main() {
	err := mainReal()
	if err != nil {
		os.Stderr.Write([]byte(err.Error() + "\n"))
		os.Exit(-1)
	}
}

func mainReal() error {
	fileName := "-"

	flag.Parse()
	if flag.NArg() > 0 {
		fileName = flag.Arg(0)
	}

	var data []byte
	var err error

	if fileName == "-" {
		data, err = ioutil.ReadAll(os.Stdin)
	} else {
		data, err = ioutil.ReadFile(fileName)
	}
	if err != nil {
		return fmt.Errorf("cannot read file (%s) because: %s", fileName, err)
	}

	docNumber := 0
	for len(data) > 0 {
		if len(data) < 4 {
			return fmt.Errorf("document %d: trailing garbage of %d bytes", docNumber, len(data))
		}
		length := int(uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24)
		if length < 5 || length > len(data) {
			return fmt.Errorf("document %d: invalid declared length %d for %d remaining bytes", docNumber, length, len(data))
		}

		v, err := bson.Unmarshal(data[:length])
		if err != nil {
			return fmt.Errorf("document %d: %s", docNumber, err)
		}

		if _, err := pretty.Println(v); err != nil {
			return err
		}

		data = data[length:]
		docNumber++
	}

	return nil
}
