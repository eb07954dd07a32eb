package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"worldmap/internal/geom"
)

// parseWKT reads one geometry per line. Blank lines and lines starting
// with '#' are skipped; a line may carry a name after a tab:
//
//	POINT(10 20)	Old Mill
func parseWKT(r io.Reader) (Dataset, error) {
	var out Dataset
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	n := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		n++
		shape, name, _ := strings.Cut(line, "\t")
		g, err := geom.ParseWKT(shape)
		if err != nil {
			return Dataset{}, fmt.Errorf("wkt line %d: %w", n, err)
		}
		d := FromGeometry(g, fmt.Sprintf("wkt-%d", n), strings.TrimSpace(name))
		out.Regions = append(out.Regions, d.Regions...)
		out.POIs = append(out.POIs, d.POIs...)
		out.Paths = append(out.Paths, d.Paths...)
	}
	if err := sc.Err(); err != nil {
		return Dataset{}, fmt.Errorf("wkt: %w", err)
	}
	return out, nil
}
