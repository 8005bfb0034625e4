// Copyright (C) 2019-2026 Algorand, Inc.
// This file is part of go-arbiter
//
// go-arbiter is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-arbiter is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-arbiter.  If not, see <https://www.gnu.org/licenses/>.

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/go-querystring/query"

	"github.com/algorand/go-arbiter/arbitration"
	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/daemon/arbiterd/api/server/lib"
	"github.com/algorand/go-arbiter/daemon/arbiterd/api/spec/common"
	v1 "github.com/algorand/go-arbiter/daemon/arbiterd/api/spec/v1"
	"github.com/algorand/go-arbiter/data/basics"
	"github.com/algorand/go-arbiter/protocol"
)

const (
	authHeader          = "X-Arbiter-API-Token"
	healthCheckEndpoint = "/health"
	maxRawResponseBytes = 50e6
)

// rawRequestPaths is a set of paths where the body should not be urlencoded
var rawRequestPaths = map[string]bool{
	"/v1/submissions/proposal":   true,
	"/v1/submissions/prediction": true,
	"/v1/submissions/outcome":    true,
}

// unauthorizedRequestError is generated when we receive 401 error from the server. This error includes the inner error
// as well as the likely parameters that caused the issue.
type unauthorizedRequestError struct {
	errorString string
	apiToken    string
	url         string
}

// Error format an error string for the unauthorizedRequestError error.
func (e unauthorizedRequestError) Error() string {
	return fmt.Sprintf("Unauthorized request to `%s` when using token `%s` : %s", e.url, e.apiToken, e.errorString)
}

// HTTPError is generated when we receive an unhandled error from the server. This error contains the error string.
type HTTPError struct {
	StatusCode  int
	Status      string
	ErrorString string
}

// Error formats an error string.
func (e HTTPError) Error() string {
	return fmt.Sprintf("HTTP %s: %s", e.Status, e.ErrorString)
}

// RestClient manages the REST interface for a calling user.
type RestClient struct {
	serverURL url.URL
	apiToken  string
}

// MakeRestClient is the factory for constructing a RestClient for a given endpoint
func MakeRestClient(url url.URL, apiToken string) RestClient {
	return RestClient{
		serverURL: url,
		apiToken:  apiToken,
	}
}

// filterASCII filter out the non-ascii printable characters out of the given input string.
// It's used as a security qualifier before adding network provided data into an error message.
// The function allows only characters in the range of [32..126], which excludes all the
// control character, new lines, deletion, etc. All the alpha numeric and punctuation characters
// are included in this range.
func filterASCII(unfilteredString string) (filteredString string) {
	for i, r := range unfilteredString {
		if int(r) >= 0x20 && int(r) <= 0x7e {
			filteredString += string(unfilteredString[i])
		}
	}
	return
}

// extractError checks if the response signifies an error (for now, StatusCode != 200 or StatusCode != 201).
// If so, it returns the error.
// Otherwise, it returns nil.
func extractError(resp *http.Response) error {
	if resp.StatusCode == 200 || resp.StatusCode == 201 {
		return nil
	}

	errorBuf, _ := io.ReadAll(resp.Body) // ignore returned error
	var errorJSON lib.ErrorModel
	decodeErr := json.Unmarshal(errorBuf, &errorJSON)

	var errorString string
	if decodeErr == nil {
		errorString = errorJSON.Message
	} else {
		errorString = string(errorBuf)
	}
	errorString = filterASCII(errorString)

	if resp.StatusCode == http.StatusUnauthorized {
		apiToken := resp.Request.Header.Get(authHeader)
		return unauthorizedRequestError{errorString, apiToken, resp.Request.URL.String()}
	}

	return HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, ErrorString: errorString}
}

// mergeRawQueries merges two raw queries, appending an "&" if both are non-empty
func mergeRawQueries(q1, q2 string) string {
	if q1 == "" || q2 == "" {
		return q1 + q2
	}
	return q1 + "&" + q2
}

// submitForm is a helper used for submitting (ex.) GETs and POSTs to the server
func (client RestClient) submitForm(
	response interface{}, path string, params interface{}, body interface{},
	requestMethod string, encodeJSON bool) error {

	var err error
	queryURL := client.serverURL
	queryURL.Path = path

	var req *http.Request
	var bodyReader io.Reader
	var v url.Values

	if params != nil {
		v, err = query.Values(params)
		if err != nil {
			return err
		}
	}

	if requestMethod == "POST" && rawRequestPaths[path] {
		reqBytes, ok := body.([]byte)
		if !ok {
			return fmt.Errorf("couldn't decode raw request as bytes")
		}
		bodyReader = bytes.NewBuffer(reqBytes)
	} else if encodeJSON && body != nil {
		jsonValue, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonValue)
	}

	queryURL.RawQuery = mergeRawQueries(queryURL.RawQuery, v.Encode())

	req, err = http.NewRequest(requestMethod, queryURL.String(), bodyReader)
	if err != nil {
		return err
	}

	// If we add another endpoint that does not require auth, we should add a
	// requiresAuth argument to submitForm rather than checking here
	if path != healthCheckEndpoint {
		req.Header.Set(authHeader, client.apiToken)
	}

	httpClient := &http.Client{}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}

	// Ensure response isn't too large
	resp.Body = http.MaxBytesReader(nil, resp.Body, maxRawResponseBytes)
	defer resp.Body.Close()

	err = extractError(resp)
	if err != nil {
		return err
	}

	dec := protocol.NewJSONDecoder(resp.Body)
	return dec.Decode(&response)
}

// get performs a GET request to the specific path against the server
func (client RestClient) get(response interface{}, path string, request interface{}) error {
	return client.submitForm(response, path, request, nil, "GET", false /* encodeJSON */)
}

// post sends a POST request to the given path with the given body object.
// No query parameters will be sent if params is nil.
// response must be a pointer to an object as post writes the response there.
func (client RestClient) post(response interface{}, path string, params interface{}, body interface{}) error {
	return client.submitForm(response, path, params, body, "POST", true /* encodeJSON */)
}

// Status retrieves the NodeStatus from the running node. It includes the
// journal head and the operation counters.
func (client RestClient) Status() (response v1.NodeStatus, err error) {
	err = client.get(&response, "/v1/status", nil)
	return
}

// HealthCheck does a health check on the potentially running node,
// returning an error if the API is down
func (client RestClient) HealthCheck() error {
	return client.get(nil, "/health", nil)
}

// ReadyCheck does a readiness check on the potentially running node,
// returning an error if the node is not yet serving decisions
func (client RestClient) ReadyCheck() error {
	return client.get(nil, "/ready", nil)
}

// Versions retrieves the VersionResponse from the running node
// the VersionResponse includes data like version number and genesis ID
func (client RestClient) Versions() (response common.Version, err error) {
	err = client.get(&response, "/versions", nil)
	return
}

// RegisterAgent adds an identity to the roster with an optional label and
// starting reputation.
func (client RestClient) RegisterAgent(identity crypto.Digest, label string, initialReputation uint64) (response v1.Agent, err error) {
	req := v1.RegisterAgentRequest{
		Identity:          identity.String(),
		Label:             label,
		InitialReputation: initialReputation,
	}
	err = client.post(&response, "/v1/agents", nil, req)
	return
}

// Agents retrieves the registered agent roster.
func (client RestClient) Agents() (response v1.AgentList, err error) {
	err = client.get(&response, "/v1/agents", nil)
	return
}

// AgentInformation looks up a single agent by identity digest.
func (client RestClient) AgentInformation(identity crypto.Digest) (response v1.Agent, err error) {
	err = client.get(&response, fmt.Sprintf("/v1/agents/%s", identity.String()), nil)
	return
}

// AdjustReputation applies a signed delta to an agent's reputation. The
// endpoint requires the admin API token.
func (client RestClient) AdjustReputation(identity crypto.Digest, delta int64) (response v1.Agent, err error) {
	req := v1.AdjustReputationRequest{Delta: delta}
	err = client.post(&response, fmt.Sprintf("/v1/agents/%s/reputation", identity.String()), nil, req)
	return
}

// SubmitProposal submits an unsigned proposal on behalf of a registered
// proposer, returning the index assigned to it.
func (client RestClient) SubmitProposal(proposer crypto.Digest, config []byte, predictedValue int64) (response v1.ProposalID, err error) {
	req := v1.SubmitProposalRequest{
		Proposer:       proposer.String(),
		Config:         config,
		PredictedValue: predictedValue,
	}
	err = client.post(&response, "/v1/proposals", nil, req)
	return
}

// Proposals retrieves every proposal the node has accepted, oldest first.
func (client RestClient) Proposals() (response v1.ProposalList, err error) {
	err = client.get(&response, "/v1/proposals", nil)
	return
}

// ProposalInformation looks up a single proposal by index.
func (client RestClient) ProposalInformation(index basics.ProposalIndex) (response v1.Proposal, err error) {
	err = client.get(&response, fmt.Sprintf("/v1/proposals/%d", index), nil)
	return
}

// SubmitPrediction submits an unsigned support/oppose prediction for the
// proposal at the given index.
func (client RestClient) SubmitPrediction(index basics.ProposalIndex, agent crypto.Digest, support bool) (response v1.Prediction, err error) {
	req := v1.SubmitPredictionRequest{
		Agent:   agent.String(),
		Support: support,
	}
	err = client.post(&response, fmt.Sprintf("/v1/proposals/%d/predictions", index), nil, req)
	return
}

// Predictions retrieves the predictions recorded for the proposal at the
// given index, in arrival order.
func (client RestClient) Predictions(index basics.ProposalIndex) (response v1.PredictionList, err error) {
	err = client.get(&response, fmt.Sprintf("/v1/proposals/%d/predictions", index), nil)
	return
}

// EvaluateDecision asks the node to close the prediction window for the
// proposal at the given index and compute its decision.
func (client RestClient) EvaluateDecision(index basics.ProposalIndex) (response v1.Decision, err error) {
	err = client.post(&response, fmt.Sprintf("/v1/proposals/%d/decision", index), nil, nil)
	return
}

// RecordOutcome attaches an outcome hash to a decided proposal.
func (client RestClient) RecordOutcome(index basics.ProposalIndex, outcomeHash crypto.Digest) (response v1.OutcomeReceipt, err error) {
	req := v1.RecordOutcomeRequest{OutcomeHash: outcomeHash.String()}
	err = client.post(&response, fmt.Sprintf("/v1/proposals/%d/outcome", index), nil, req)
	return
}

// SendSignedProposal submits a signed proposal envelope to the node. The
// envelope travels in its canonical encoding, not as json.
func (client RestClient) SendSignedProposal(sp arbitration.SignedProposal) (response v1.ProposalID, err error) {
	err = client.post(&response, "/v1/submissions/proposal", nil, protocol.Encode(&sp))
	return
}

// SendSignedPrediction submits a signed prediction envelope to the node.
func (client RestClient) SendSignedPrediction(sp arbitration.SignedPrediction) (response v1.Prediction, err error) {
	err = client.post(&response, "/v1/submissions/prediction", nil, protocol.Encode(&sp))
	return
}

// SendSignedOutcome submits a signed outcome envelope to the node.
func (client RestClient) SendSignedOutcome(so arbitration.SignedOutcome) (response v1.OutcomeReceipt, err error) {
	err = client.post(&response, "/v1/submissions/outcome", nil, protocol.Encode(&so))
	return
}

// JournalHead retrieves the sequence number and chain digest of the latest
// journal entry.
func (client RestClient) JournalHead() (response v1.JournalHead, err error) {
	err = client.get(&response, "/v1/journal/head", nil)
	return
}

// VerifyJournal asks the node to replay its journal hash chain end to end.
// The endpoint requires the admin API token.
func (client RestClient) VerifyJournal() (response v1.JournalVerification, err error) {
	err = client.get(&response, "/v1/journal/verify", nil)
	return
}

// WriteSnapshot asks the node to write a state snapshot into its data
// directory. The endpoint requires the admin API token.
func (client RestClient) WriteSnapshot() (response v1.SnapshotReceipt, err error) {
	err = client.post(&response, "/v1/snapshot", nil, nil)
	return
}
