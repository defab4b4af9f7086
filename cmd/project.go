package main

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/rta2map/internal/projection"
	"github.com/sells-group/rta2map/internal/rental"
)

var (
	projectZone  int
	projectSouth bool
)

var projectCmd = &cobra.Command{
	Use:   "project <easting> <northing>",
	Short: "Convert one UTM coordinate pair to latitude/longitude",
	Long:  "Projects a UTM easting/northing pair to WGS84. Decimal commas are accepted, as in the registry dataset.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		easting, err := rental.ParseCoordinate(args[0])
		if err != nil {
			return eris.Wrapf(err, "easting %q", args[0])
		}
		northing, err := rental.ParseCoordinate(args[1])
		if err != nil {
			return eris.Wrapf(err, "northing %q", args[1])
		}

		zone := projection.Zone{Number: projectZone, North: !projectSouth}
		lat, lon, err := projection.ToGeographic(easting, northing, zone)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s -> EPSG:%d\nlat %s\nlon %s\n",
			zone, projection.SRIDWGS84,
			strconv.FormatFloat(lat, 'f', 8, 64),
			strconv.FormatFloat(lon, 'f', 8, 64),
		)
		return nil
	},
}

func init() {
	projectCmd.Flags().IntVar(&projectZone, "zone", 30, "UTM zone number (1-60)")
	projectCmd.Flags().BoolVar(&projectSouth, "south", false, "southern hemisphere")
	rootCmd.AddCommand(projectCmd)
}
