// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package spv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

// TxOutput is one normalized output of a fetched transaction: address and
// amount in base units (satoshi-equivalent or wei, per coin).
type TxOutput struct {
	Address string
	Amount  int64
}

// TxInfo is the network-level abstraction over whatever a block-explorer
// or node RPC actually returns: the fields this core needs, nothing more.
type TxInfo struct {
	TxID          string
	BlockHeight   uint64
	Confirmations uint64
	Outputs       []TxOutput
}

// Provider fetches transaction data for a single coin from an external
// block-explorer API. Implementations wrap provider-specific JSON shapes;
// HTTPProvider below is the generic fasthttp-based implementation most
// coins use.
type Provider interface {
	FetchTx(ctx context.Context, txid string) (*TxInfo, error)
}

// HTTPProvider calls a JSON block-explorer endpoint over fasthttp, the
// same client library the teacher's stack uses for outbound calls.
type HTTPProvider struct {
	BaseURL string
	APIKey  string
	Client  *fasthttp.Client
	Timeout time.Duration
}

func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &fasthttp.Client{},
		Timeout: timeout,
	}
}

// providerTxResponse is the common subset of fields real explorer APIs
// (Blockstream/Etherscan-style) return; provider-specific field names are
// mapped onto this before JSON unmarshal by wrapping responses upstream.
type providerTxResponse struct {
	TxID          string `json:"txid"`
	BlockHeight   uint64 `json:"block_height"`
	Confirmations uint64 `json:"confirmations"`
	Outputs       []struct {
		Address string `json:"address"`
		Amount  int64  `json:"amount"`
	} `json:"outputs"`
}

func (p *HTTPProvider) FetchTx(ctx context.Context, txid string) (*TxInfo, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	url := fmt.Sprintf("%s/tx/%s", p.BaseURL, txid)
	if p.APIKey != "" {
		url = fmt.Sprintf("%s?apikey=%s", url, p.APIKey)
	}
	req.SetRequestURI(url)
	req.Header.SetMethod("GET")

	if err := p.Client.DoTimeout(req, resp, p.Timeout); err != nil {
		return nil, fmt.Errorf("spv provider fetch: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("spv provider returned status %d", resp.StatusCode())
	}

	var parsed providerTxResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("spv provider decode: %w", err)
	}

	info := &TxInfo{
		TxID:          parsed.TxID,
		BlockHeight:   parsed.BlockHeight,
		Confirmations: parsed.Confirmations,
	}
	for _, o := range parsed.Outputs {
		info.Outputs = append(info.Outputs, TxOutput{Address: o.Address, Amount: o.Amount})
	}
	return info, nil
}
