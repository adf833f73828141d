// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

// Request sets the level either by name or by verbosity. Level wins when both are given.
type Request struct {
	Level     string `json:"level"`
	Verbosity *int   `json:"verbosity"`
}

type Response struct {
	CurrentLevel string `json:"currentLevel"`
}
