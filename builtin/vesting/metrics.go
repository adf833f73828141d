// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/metrics"
)

var metricOpsCount = metrics.LazyLoadCounterVec("vesting_ops_count", []string{"op", "result"})

func (v *Vesting) record(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		if reverts.IsRevertErr(err) {
			result = "revert"
		}
	}
	metricOpsCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
}
