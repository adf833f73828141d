// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/api/utils"
	"github.com/stakevault/stakevault/api/vesting"
	"github.com/stakevault/stakevault/builtin"
	"github.com/stakevault/stakevault/genesis"
	"github.com/stakevault/stakevault/test/testchain"
	"github.com/stakevault/stakevault/vault"
)

const day = 24 * 3600

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func httpPost(t *testing.T, url string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func newServer(t *testing.T) (*testchain.Chain, *httptest.Server) {
	tchain, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(func() { tchain.Close() })

	router := mux.NewRouter()
	vesting.New(tchain).Mount(router, "/vesting")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return tchain, ts
}

func getBeneficiary(t *testing.T, ts *httptest.Server, beneficiary vault.Address) *vesting.Beneficiary {
	body, code := httpGet(t, ts.URL+"/vesting/"+genesis.DevVesting.String()+"/"+beneficiary.String())
	require.Equal(t, http.StatusOK, code, string(body))
	var b vesting.Beneficiary
	require.NoError(t, json.Unmarshal(body, &b))
	return &b
}

func TestGetProgram(t *testing.T) {
	_, ts := newServer(t)

	body, code := httpGet(t, ts.URL+"/vesting/"+genesis.DevVesting.String())
	require.Equal(t, http.StatusOK, code, string(body))
	var p vesting.Program
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, genesis.DevAccounts()[0].Address, p.Admin)
	assert.Equal(t, genesis.DevStakeToken, p.Token)
	assert.True(t, p.MultiGrant)
	assert.Equal(t, ether(3_000_000), (*big.Int)(p.TotalVested))

	_, code = httpGet(t, ts.URL+"/vesting/"+genesis.DevOpenPool.String())
	assert.Equal(t, http.StatusNotFound, code)
}

func TestClaim(t *testing.T) {
	tchain, ts := newServer(t)
	beneficiary := genesis.DevAccounts()[1].Address

	b := getBeneficiary(t, ts, beneficiary)
	require.Len(t, b.Grants, 1)
	g := b.Grants[0]
	assert.Equal(t, uint64(0), g.Nonce)
	assert.Equal(t, ether(1_000_000), (*big.Int)(g.Total))
	assert.Equal(t, ether(100_000), (*big.Int)(g.Initial))
	assert.Equal(t, ether(100_000), (*big.Int)(g.Claimed))
	assert.Equal(t, g.Start+30*day, g.CliffEnd)
	assert.Equal(t, 0, (*big.Int)(b.Claimable).Sign())

	// only the initial unlock is vested before the cliff
	body, code := httpPost(t, ts.URL+"/vesting/"+genesis.DevVesting.String()+"/claim", vesting.ClaimRequest{Beneficiary: beneficiary})
	require.Equal(t, http.StatusUnprocessableEntity, code, string(body))
	var reverted utils.Reverted
	require.NoError(t, json.Unmarshal(body, &reverted))
	assert.Equal(t, "nothing to claim", reverted.Error)

	require.NoError(t, tchain.Advance(400*day))
	b = getBeneficiary(t, ts, beneficiary)
	assert.Equal(t, ether(900_000), (*big.Int)(b.Claimable))

	nonce := uint64(0)
	body, code = httpPost(t, ts.URL+"/vesting/"+genesis.DevVesting.String()+"/claim", vesting.ClaimRequest{Beneficiary: beneficiary, Nonce: &nonce})
	require.Equal(t, http.StatusOK, code, string(body))
	var res vesting.OpResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, ether(900_000), (*big.Int)(res.Amount))
	assert.NotEmpty(t, res.Events)

	b = getBeneficiary(t, ts, beneficiary)
	assert.Equal(t, 0, (*big.Int)(b.Claimable).Sign())
	assert.Equal(t, ether(1_000_000), (*big.Int)(b.Grants[0].Claimed))
}

func TestInitiate(t *testing.T) {
	tchain, ts := newServer(t)
	accs := genesis.DevAccounts()
	adminAddr, beneficiary := accs[0].Address, accs[len(accs)-1].Address
	amount := big.NewInt(1000)

	_, err := tchain.Submit(context.Background(), func(env *builtin.Env, _ uint64) error {
		return env.Token(genesis.DevStakeToken).Approve(adminAddr, genesis.DevVesting, amount)
	})
	require.NoError(t, err)

	req := vesting.InitiateRequest{
		Caller:        adminAddr,
		Beneficiaries: []vault.Address{beneficiary},
		Amounts:       []*math.HexOrDecimal256{(*math.HexOrDecimal256)(amount)},
		Total:         (*math.HexOrDecimal256)(amount),
		Linear:        100,
	}

	// the caller must hold the admin role
	stranger := req
	stranger.Caller = beneficiary
	_, code := httpPost(t, ts.URL+"/vesting/"+genesis.DevVesting.String()+"/initiate", stranger)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	missing := req
	missing.Total = nil
	_, code = httpPost(t, ts.URL+"/vesting/"+genesis.DevVesting.String()+"/initiate", missing)
	assert.Equal(t, http.StatusBadRequest, code)

	body, code := httpPost(t, ts.URL+"/vesting/"+genesis.DevVesting.String()+"/initiate", req)
	require.Equal(t, http.StatusOK, code, string(body))
	var res vesting.OpResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, []uint64{0}, res.Nonces)

	b := getBeneficiary(t, ts, beneficiary)
	require.Len(t, b.Grants, 1)
	assert.Equal(t, res.BlockTime, b.Grants[0].Start)
	assert.Equal(t, res.BlockTime+100, b.Grants[0].End)
}

func TestAdminOps(t *testing.T) {
	_, ts := newServer(t)
	accs := genesis.DevAccounts()

	_, code := httpPost(t, ts.URL+"/vesting/"+genesis.DevVesting.String()+"/transferAdmin", vesting.AdminRequest{
		Caller: accs[1].Address,
		Target: accs[1].Address,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	body, code := httpPost(t, ts.URL+"/vesting/"+genesis.DevVesting.String()+"/transferAdmin", vesting.AdminRequest{
		Caller: accs[0].Address,
		Target: accs[1].Address,
	})
	require.Equal(t, http.StatusOK, code, string(body))

	body, code = httpGet(t, ts.URL+"/vesting/"+genesis.DevVesting.String())
	require.Equal(t, http.StatusOK, code, string(body))
	var p vesting.Program
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, accs[1].Address, p.Admin)
}
