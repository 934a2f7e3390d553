// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ncpoint

import "regexp"

// GDA94WKT is the well-known text for the Geocentric Datum of Australia
// 1994 geographic CRS (EPSG:4283), the default datum for Australian
// geophysical survey data.
const GDA94WKT = `GEOGCS["GDA94",
    DATUM["Geocentric_Datum_of_Australia_1994",
        SPHEROID["GRS 1980",6378137,298.257222101,
            AUTHORITY["EPSG","7019"]],
        TOWGS84[0,0,0,0,0,0,0],
        AUTHORITY["EPSG","6283"]],
    PRIMEM["Greenwich",0,
        AUTHORITY["EPSG","8901"]],
    UNIT["degree",0.0174532925199433,
        AUTHORITY["EPSG","9122"]],
    AUTHORITY["EPSG","4283"]]`

var epsgPattern = regexp.MustCompile(`AUTHORITY\["EPSG","(\d+)"\]`)

// EPSGFromWKT extracts the outermost EPSG authority code from a WKT CRS
// definition. WKT nests AUTHORITY clauses; the last one belongs to the CRS
// itself. Returns "" when no code is present.
func EPSGFromWKT(wkt string) string {
	matches := epsgPattern.FindAllStringSubmatch(wkt, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1][1]
}

// CRSVariable builds the scalar grid-mapping variable carrying the dataset
// CRS. The variable itself is a placeholder byte; readers consume the
// spatial_ref and epsg_code attributes.
func CRSVariable(wkt string) Variable {
	v := Variable{
		Name:   "crs",
		Values: int8(0),
	}
	v = v.WithAttr("grid_mapping_name", "latitude_longitude")
	v = v.WithAttr("spatial_ref", wkt)
	if code := EPSGFromWKT(wkt); code != "" {
		v = v.WithAttr("epsg_code", "EPSG:"+code)
	}
	return v
}
