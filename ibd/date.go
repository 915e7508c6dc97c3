// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ibd

import (
	"strings"
	"time"

	"github.com/mbucca/btcnode/internal/corenode"
)

// strftimeDirectives translates the strftime-style directives the config
// file's DATE_FORMAT setting carries (e.g. "%Y-%m-%d %H:%M:%S")
// into a Go reference-time layout. Only the commonly used directives
// are covered; an unrecognized directive is left as-is.
var strftimeDirectives = strings.NewReplacer(
	"%Y", "2006",
	"%m", "01",
	"%d", "02",
	"%H", "15",
	"%M", "04",
	"%S", "05",
	"%b", "Jan",
	"%B", "January",
	"%y", "06",
)

// firstBlockTimestamp parses dateFormat/dateStr into the UTC cutoff time:
// headers at or after this time are the ones whose bodies IBD downloads.
func firstBlockTimestamp(dateFormat, dateStr string) (time.Time, error) {
	layout := strftimeDirectives.Replace(dateFormat)
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		return time.Time{}, corenode.WrapMsg(corenode.Arguments, "parsing DATE_FIRST_BLOCK_TO_DOWNLOAD", err)
	}
	return t, nil
}
