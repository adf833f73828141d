// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solo

import "github.com/stakevault/stakevault/metrics"

var (
	metricBlocksCount     = metrics.LazyLoadCounterVec("solo_blocks_count", nil)
	metricBestBlock       = metrics.LazyLoadGauge("solo_best_block")
	metricBlockOperations = metrics.LazyLoadHistogramVec("solo_block_operations", nil, []int64{0, 1, 2, 5, 10, 20, 50, 100, 500})
)
