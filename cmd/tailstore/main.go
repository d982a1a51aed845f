package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/tailstore/bootstrap"
	"github.com/fulldump/tailstore/configuration"
)

var banner = `
 _____     _ _ _____ _
|_   _|_ _(_) |   __| |_ ___ ___ ___
  | | | .'| | |__   |  _| . |  _| -_|
  |_| |__,|_|_|_____|_| |___|_| |___|
                  version ` + bootstrap.VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(&c)

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	start, _ := bootstrap.Bootstrap(&c)
	start()
}
