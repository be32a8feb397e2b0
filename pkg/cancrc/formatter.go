// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cancrc

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNumber groups the digits of n in threes separated by spaces
func FormatNumber(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Field is one labelled line of a result or report block
type Field struct {
	Label string
	Value string
}

// ResultFields lists the CRC value in hex, decimal and binary
func ResultFields(res Result) []Field {
	return []Field{
		{"CRC (hex):", "0x" + res.Hex()},
		{"CRC (dec):", res.Decimal()},
		{"CRC (bin):", res.Binary()},
	}
}

// ReportFields lists the timing figures of a run. Averages and throughput
// are only listed for more than one iteration.
func ReportFields(rep Report) []Field {
	fields := []Field{{"Total time:", fmt.Sprintf("%.3f ms", rep.TotalMillis())}}
	if rep.Iterations > 1 {
		avg := rep.AverageMillis()
		fields = append(fields,
			Field{"Average per CRC:", fmt.Sprintf("%.6f ms", avg)},
			Field{"Average per CRC:", fmt.Sprintf("%.3f µs", avg*1000)},
			Field{"Throughput:", FormatNumber(uint64(rep.Throughput())) + " CRC/s"},
		)
	}
	return fields
}
