// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/metrics"
)

var (
	metricOpsCount    = metrics.LazyLoadCounterVec("pool_ops_count", []string{"op", "result"})
	metricTotalStaked = metrics.LazyLoadGaugeVec("pool_total_staked", []string{"pool"})
	metricStakers     = metrics.LazyLoadGaugeVec("pool_stakers", []string{"pool"})
)

func (p *Pool) record(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		if reverts.IsRevertErr(err) {
			result = "revert"
		}
	}
	metricOpsCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
}

// updateGauges publishes pool totals. Totals beyond int64 are not reported.
func (p *Pool) updateGauges() {
	labels := map[string]string{"pool": p.Address().String()}
	if total, err := p.globalStatsService.TotalStaked(); err == nil && total.IsInt64() {
		metricTotalStaked().SetWithLabel(total.Int64(), labels)
	}
	if stakers, err := p.globalStatsService.Stakers(); err == nil {
		metricStakers().SetWithLabel(int64(stakers), labels)
	}
}
