// internal/app/system/barcode/code128.go
//
// Package barcode draws Code 128 (subset B) barcodes for coupon print
// sheets.
package barcode

import (
	"errors"
	"fmt"
)

// Bar/space widths for symbol values 0..106. Value 106 is the stop
// pattern and carries the trailing 2-module bar.
var patterns = [...]string{
	"212222", "222122", "222221", "121223", "121322", "131222", "122213", "122312", "132212", "221213",
	"221312", "231212", "112232", "122132", "122231", "113222", "123122", "123221", "223211", "221132",
	"221231", "213212", "223112", "312131", "311222", "321122", "321221", "312212", "322112", "322211",
	"212123", "212321", "232121", "111323", "131123", "131321", "112313", "132113", "132311", "211313",
	"231113", "231311", "112133", "112331", "132131", "113123", "113321", "133121", "313121", "211331",
	"231131", "213113", "213311", "213131", "311123", "311321", "331121", "312113", "312311", "332111",
	"314111", "221411", "431111", "111224", "111422", "121124", "121421", "141122", "141221", "112214",
	"112412", "122114", "122411", "142112", "142211", "241211", "221114", "413111", "241112", "134111",
	"111242", "121142", "121241", "114212", "124112", "124211", "411212", "421112", "421211", "212141",
	"214121", "412121", "111143", "111341", "131141", "114113", "114311", "411113", "411311", "113141",
	"114131", "311141", "411131", "211412", "211214", "211232", "2331112",
}

const (
	startB    = 104
	stop      = 106
	quietZone = 10
	maxLength = 80
)

var ErrEmpty = errors.New("barcode: empty value")

// Symbols returns the symbol values for s: start B, data, checksum, stop.
func Symbols(s string) ([]int, error) {
	if s == "" {
		return nil, ErrEmpty
	}
	if len(s) > maxLength {
		return nil, fmt.Errorf("barcode: value longer than %d characters", maxLength)
	}
	out := make([]int, 0, len(s)+3)
	out = append(out, startB)
	sum := startB
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 32 || c > 126 {
			return nil, fmt.Errorf("barcode: character %q not encodable", c)
		}
		v := int(c) - 32
		out = append(out, v)
		sum += v * (i + 1)
	}
	out = append(out, sum%103, stop)
	return out, nil
}

// Modules expands s into a run of modules, true for bar, with a quiet
// zone on both sides.
func Modules(s string) ([]bool, error) {
	syms, err := Symbols(s)
	if err != nil {
		return nil, err
	}
	mods := make([]bool, quietZone, quietZone*2+len(syms)*11+2)
	for _, v := range syms {
		bar := true
		for _, w := range patterns[v] {
			for n := 0; n < int(w-'0'); n++ {
				mods = append(mods, bar)
			}
			bar = !bar
		}
	}
	return append(mods, make([]bool, quietZone)...), nil
}
