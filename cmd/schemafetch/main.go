// Command schemafetch downloads a versioned block/item/entity/biome
// data set from the minecraft-data repository into a local directory,
// parses and registers it through gamedata.RegisterSchemaDir under the
// version name "<platform>-<version>" (see pkg/gamedata/schema.go), and
// prints how many blocks, items, entities and biomes it parsed. The
// registration lives only in this process; the server does not read
// the downloaded directory and always loads the "minimal" table. It is
// a one-shot fetch tool, not something the server imports.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	get "github.com/hashicorp/go-getter"

	"github.com/kael-voss/voxelpulse/pkg/gamedata"
)

func main() {
	var (
		base     = flag.String("base", "https://github.com/PrismarineJS/minecraft-data.git", "base url")
		platform = flag.String("platform", "pc", "platform of schemas")
		ver      = flag.String("version", "1.21.8", "version of schemas")
		out      = flag.String("o", "./scheme", "output dir path")
	)
	flag.Parse()

	if *out == "" {
		panic("output dir path required")
	}

	if *platform == "" {
		panic("platform url required")
	}

	if *ver == "" {
		panic("version required")
	}

	path := fmt.Sprintf("%s/%s-%s", *out, *platform, *ver)

	if err := os.RemoveAll(path); err != nil {
		panic(err)
	}

	log.Default().Printf("start downloading schemes %s", path)

	// https://github.com/PrismarineJS/minecraft-data/tree/master/data/pc/1.21.8
	url := fmt.Sprintf("git::%s//data/%s/%s", *base, *platform, *ver)

	if err := get.Get(path, url); err != nil {
		panic(err)
	}

	log.Default().Printf("done downloading schemes %s", path)

	versionName := fmt.Sprintf("%s-%s", *platform, *ver)
	if err := gamedata.RegisterSchemaDir(versionName, path); err != nil {
		log.Default().Fatalf("parse downloaded schema: %v", err)
	}

	gd := gamedata.MustLoad(versionName)
	log.Default().Printf("parsed schema %q: %d blocks, %d items, %d entities, %d biomes",
		versionName, len(gd.Blocks.All()), len(gd.Items.All()), len(gd.Entities.All()), len(gd.Biomes.All()))
}
