package mapping

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// GridWorldMap is the plain-text grid-world map format: a header line
// "map <resolution> <width> <height>" followed by <height> run-length
// encoded rows. Each row starts with a marker token ("#" if the row's
// first run, from column 0, is blocked; anything else if it is free),
// followed by the column indices at which the row switches between
// blocked and free. Chosen by the executive's refreshMap when the path ends in
// ".map". Grounded in the teacher's parse.BuildGrid.
type GridWorldMap struct {
	*Grid
}

// LoadGridWorldMap reads a grid-world map from path.
func LoadGridWorldMap(path string) (*GridWorldMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening grid-world map %q: %w", path, err)
	}
	defer f.Close()
	g, err := parseGridWorld(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("parsing grid-world map %q: %w", path, err)
	}
	return &GridWorldMap{Grid: g}, nil
}

func parseGridWorld(r *bufio.Reader) (*Grid, error) {
	header, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	var resolution, width, height int
	if _, err := fmt.Sscanf(header, "map %d %d %d", &resolution, &width, &height); err != nil {
		return nil, fmt.Errorf("bad header %q: %w", strings.TrimSpace(header), err)
	}
	grid := NewGrid(width*resolution, height*resolution)
	for y := height - 1; y >= 0; y-- {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return nil, fmt.Errorf("reading row %d: %w", y, err)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		block := fields[0] == "#"
		fields = fields[1:]
		x := 0
		for _, s := range fields {
			col, convErr := strconv.Atoi(s)
			if convErr != nil {
				return nil, fmt.Errorf("bad column %q in row %d: %w", s, y, convErr)
			}
			if block {
				for ; x < col; x++ {
					grid.BlockRange(x*resolution, y*resolution, resolution)
				}
			} else {
				x = col
			}
			block = !block
		}
		if block {
			for ; x < width; x++ {
				grid.BlockRange(x*resolution, y*resolution, resolution)
			}
		}
	}
	return grid, nil
}
