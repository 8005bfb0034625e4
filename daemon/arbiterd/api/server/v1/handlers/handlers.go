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

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/algorand/go-arbiter/arbitration"
	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/daemon/arbiterd/api/server/lib"
	v1 "github.com/algorand/go-arbiter/daemon/arbiterd/api/spec/v1"
	"github.com/algorand/go-arbiter/data/basics"
	"github.com/algorand/go-arbiter/data/verify"
	"github.com/algorand/go-arbiter/logging"
	"github.com/algorand/go-arbiter/node"
	"github.com/algorand/go-arbiter/protocol"
	"github.com/algorand/go-arbiter/util"
)

// SendJSON writes the object to the response with the right content type.
func SendJSON(obj interface{}, w http.ResponseWriter, log logging.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.Warnf("arbiterd failed to write response: %v", err)
	}
}

// clientErrorStatus maps engine and boundary rejections onto HTTP status
// codes. The second return is false for anything unrecognized, which the
// callers treat as an internal failure.
func clientErrorStatus(err error) (int, bool) {
	if errors.Is(err, arbitration.InvalidProposalError{}) {
		return http.StatusNotFound, true
	}
	if errors.Is(err, arbitration.NotRegisteredError{}) ||
		errors.Is(err, arbitration.AlreadyRegisteredError{}) ||
		errors.Is(err, arbitration.WindowClosedError{}) ||
		errors.Is(err, arbitration.AlreadySubmittedError{}) ||
		errors.Is(err, arbitration.InsufficientPredictionsError{}) ||
		errors.Is(err, arbitration.AlreadyDecidedError{}) ||
		errors.Is(err, arbitration.DecisionPendingError{}) ||
		errors.Is(err, arbitration.AlreadyRecordedError{}) ||
		errors.Is(err, arbitration.ZeroOutcomeError{}) ||
		errors.Is(err, verify.ErrBadSignature) {
		return http.StatusBadRequest, true
	}
	var labelErr node.LabelTooLongError
	var payloadErr node.PayloadTooLargeError
	if errors.As(err, &labelErr) || errors.As(err, &payloadErr) {
		return http.StatusBadRequest, true
	}
	return 0, false
}

// engineErrorResponse answers an engine rejection with the matching client
// error, falling back to a 500 with publicErr for anything unexpected.
func engineErrorResponse(ctx lib.ReqContext, w http.ResponseWriter, err error, publicErr string) {
	if status, ok := clientErrorStatus(err); ok {
		lib.ErrorResponse(w, status, err, err.Error(), ctx.Log)
		return
	}
	lib.ErrorResponse(w, http.StatusInternalServerError, err, publicErr, ctx.Log)
}

func decodeJSONRequest(r *http.Request, dest interface{}) error {
	return protocol.NewJSONDecoder(r.Body).Decode(dest)
}

func parseIdentityParam(r *http.Request) (crypto.Digest, error) {
	param := lib.PathParam(r, "identity")
	if param == "" {
		return crypto.Digest{}, errors.New(errNoIdentitySpecified)
	}
	return crypto.DigestFromString(param)
}

func parseIndexParam(r *http.Request) (basics.ProposalIndex, error) {
	idx, err := strconv.ParseUint(lib.PathParam(r, "index"), 10, 64)
	return basics.ProposalIndex(idx), err
}

func agentModel(agent arbitration.Agent) v1.Agent {
	return v1.Agent{
		Identity:   agent.Identity.String(),
		Label:      agent.Label,
		Reputation: uint64(agent.Reputation),
	}
}

func proposalModel(prop arbitration.Proposal, phase arbitration.Phase) v1.Proposal {
	model := v1.Proposal{
		Index:          uint64(prop.Index),
		Proposer:       prop.Proposer.String(),
		Config:         prop.Config,
		PredictedValue: prop.PredictedValue,
		Timestamp:      prop.Timestamp,
		Decided:        prop.Decided,
		Approved:       prop.Approved,
		SupportCount:   prop.SupportCount,
		OpposeCount:    prop.OpposeCount,
		Phase:          phase.String(),
	}
	if !prop.OutcomeHash.IsZero() {
		model.OutcomeHash = prop.OutcomeHash.String()
	}
	return model
}

func nodeStatus(node *node.ArbiterNode) (v1.NodeStatus, error) {
	stat, err := node.Status()
	if err != nil {
		return v1.NodeStatus{}, err
	}
	res := v1.NodeStatus{
		JournalSequence:        stat.JournalSequence,
		RegisteredAgents:       stat.RegisteredAgents,
		Proposals:              stat.Proposals,
		DecidedProposals:       stat.DecidedProposals,
		RecordedProposals:      stat.RecordedProposals,
		ParamsVersion:          string(stat.ParamsVersion),
		TimeSinceLastMutation:  int64(stat.TimeSinceLastMutation()),
		HasMutatedSinceStartup: stat.HasMutatedSinceStartup,
	}
	if stat.JournalNonEmpty {
		res.JournalDigest = stat.JournalDigest.String()
	}
	return res, nil
}

// Status is an httpHandler for route GET /v1/status
func Status(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/status GetStatus
	//---
	//     Summary: Gets the current node status.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/NodeStatus'
	//       500:
	//         description: Internal Error
	//       401: { description: Invalid API Token }
	status, err := nodeStatus(ctx.Node)
	if err != nil {
		lib.ErrorResponse(w, http.StatusInternalServerError, err, errFailedRetrievingNodeStatus, ctx.Log)
		return
	}

	SendJSON(status, w, ctx.Log)
}

// JournalHead is an httpHandler for route GET /v1/journal/head
func JournalHead(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/journal/head GetJournalHead
	//---
	//     Summary: Gets the sequence number and chain digest of the latest journal entry.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/JournalHead'
	//       500:
	//         description: Internal Error
	//       401: { description: Invalid API Token }
	status, err := ctx.Node.Status()
	if err != nil {
		lib.ErrorResponse(w, http.StatusInternalServerError, err, errFailedLookingUpJournal, ctx.Log)
		return
	}

	head := v1.JournalHead{Empty: !status.JournalNonEmpty}
	if status.JournalNonEmpty {
		head.Sequence = status.JournalSequence
		head.Digest = status.JournalDigest.String()
	}
	SendJSON(head, w, ctx.Log)
}

// VerifyJournal is an httpHandler for route GET /v1/journal/verify
func VerifyJournal(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/journal/verify VerifyJournal
	//---
	//     Summary: Replays the journal's hash chain and reports whether it is intact.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/JournalVerification'
	//       500:
	//         description: Internal Error
	//       401: { description: Invalid API Token }
	if err := ctx.Node.VerifyJournal(); err != nil {
		lib.ErrorResponse(w, http.StatusInternalServerError, err, errJournalVerifyFailed, ctx.Log)
		return
	}

	status, err := ctx.Node.Status()
	if err != nil {
		lib.ErrorResponse(w, http.StatusInternalServerError, err, errFailedLookingUpJournal, ctx.Log)
		return
	}

	result := v1.JournalVerification{Ok: true}
	if status.JournalNonEmpty {
		result.Sequence = status.JournalSequence
		result.Digest = status.JournalDigest.String()
	}
	SendJSON(result, w, ctx.Log)
}

// RegisterAgent is an httpHandler for route POST /v1/agents
func RegisterAgent(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /v1/agents RegisterAgent
	//---
	//     Summary: Registers a new agent on the roster.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Parameters:
	//       - name: body
	//         in: body
	//         required: true
	//         schema:
	//           "$ref": '#/definitions/RegisterAgentRequest'
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/Agent'
	//       400:
	//         description: Bad Request
	//       500:
	//         description: Internal Error
	//       401: { description: Invalid API Token }
	var req v1.RegisterAgentRequest
	if err := decodeJSONRequest(r, &req); err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseRequestBody, ctx.Log)
		return
	}

	identity, err := crypto.DigestFromString(req.Identity)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseIdentity, ctx.Log)
		return
	}

	err = ctx.Node.RegisterAgent(identity, req.Label, basics.Reputation(req.InitialReputation))
	if err != nil {
		engineErrorResponse(ctx, w, err, errInternalFailure)
		return
	}

	agent, _ := ctx.Node.LookupAgent(identity)
	SendJSON(agentModel(agent), w, ctx.Log)
}

// AgentList is an httpHandler for route GET /v1/agents
func AgentList(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/agents GetAgentList
	//---
	//     Summary: Lists every registered agent in registration order.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/AgentList'
	//       401: { description: Invalid API Token }
	response := v1.AgentList{Agents: util.Map(ctx.Node.Agents(), agentModel)}
	SendJSON(response, w, ctx.Log)
}

// AgentInformation is an httpHandler for route GET /v1/agents/:identity
func AgentInformation(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/agents/{identity} GetAgentInformation
	//---
	//     Summary: Gets one agent's registration record.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Parameters:
	//       - name: identity
	//         in: path
	//         type: string
	//         required: true
	//         description: The agent identity digest, in base32
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/Agent'
	//       400:
	//         description: Bad Request
	//       404:
	//         description: Not Found
	//       401: { description: Invalid API Token }
	identity, err := parseIdentityParam(r)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseIdentity, ctx.Log)
		return
	}

	agent, ok := ctx.Node.LookupAgent(identity)
	if !ok {
		lib.ErrorResponse(w, http.StatusNotFound, arbitration.NotRegisteredError{Identity: identity}, errAgentDoesNotExist, ctx.Log)
		return
	}

	SendJSON(agentModel(agent), w, ctx.Log)
}

// AdjustReputation is an httpHandler for route POST /v1/agents/:identity/reputation
func AdjustReputation(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /v1/agents/{identity}/reputation AdjustReputation
	//---
	//     Summary: Applies a signed delta to an agent's reputation.
	//     Description: Negative deltas saturate at the configured floor instead of underflowing.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Parameters:
	//       - name: identity
	//         in: path
	//         type: string
	//         required: true
	//       - name: body
	//         in: body
	//         required: true
	//         schema:
	//           "$ref": '#/definitions/AdjustReputationRequest'
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/Agent'
	//       400:
	//         description: Bad Request
	//       500:
	//         description: Internal Error
	//       401: { description: Invalid API Token }
	identity, err := parseIdentityParam(r)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseIdentity, ctx.Log)
		return
	}

	var req v1.AdjustReputationRequest
	if err := decodeJSONRequest(r, &req); err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseRequestBody, ctx.Log)
		return
	}

	if err := ctx.Node.AdjustReputation(identity, req.Delta); err != nil {
		engineErrorResponse(ctx, w, err, errInternalFailure)
		return
	}

	agent, _ := ctx.Node.LookupAgent(identity)
	SendJSON(agentModel(agent), w, ctx.Log)
}

// SubmitProposal is an httpHandler for route POST /v1/proposals
func SubmitProposal(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /v1/proposals SubmitProposal
	//---
	//     Summary: Submits a new configuration change proposal.
	//     Description: Rejected when the node requires signed submissions.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Parameters:
	//       - name: body
	//         in: body
	//         required: true
	//         schema:
	//           "$ref": '#/definitions/SubmitProposalRequest'
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/ProposalID'
	//       400:
	//         description: Bad Request
	//       500:
	//         description: Internal Error
	//       401: { description: Invalid API Token }
	if ctx.Node.Config().EnableSignedSubmissions {
		lib.ErrorResponse(w, http.StatusBadRequest, errors.New(errSignedSubmissionsRequired), errSignedSubmissionsRequired, ctx.Log)
		return
	}

	var req v1.SubmitProposalRequest
	if err := decodeJSONRequest(r, &req); err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseRequestBody, ctx.Log)
		return
	}

	proposer, err := crypto.DigestFromString(req.Proposer)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseIdentity, ctx.Log)
		return
	}

	idx, err := ctx.Node.SubmitProposal(proposer, req.Config, req.PredictedValue)
	if err != nil {
		engineErrorResponse(ctx, w, err, errInternalFailure)
		return
	}

	SendJSON(v1.ProposalID{Index: uint64(idx)}, w, ctx.Log)
}

// ProposalList is an httpHandler for route GET /v1/proposals
func ProposalList(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/proposals GetProposalList
	//---
	//     Summary: Lists every proposal in submission order.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/ProposalList'
	//       401: { description: Invalid API Token }
	models, err := util.MapErr(ctx.Node.Proposals(), func(prop arbitration.Proposal) (v1.Proposal, error) {
		phase, err := ctx.Node.ProposalPhase(prop.Index)
		if err != nil {
			return v1.Proposal{}, err
		}
		return proposalModel(prop, phase), nil
	})
	if err != nil {
		lib.ErrorResponse(w, http.StatusInternalServerError, err, errInternalFailure, ctx.Log)
		return
	}
	SendJSON(v1.ProposalList{Proposals: models}, w, ctx.Log)
}

// ProposalInformation is an httpHandler for route GET /v1/proposals/:index
func ProposalInformation(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/proposals/{index} GetProposalInformation
	//---
	//     Summary: Gets one proposal's record, including its derived phase.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Parameters:
	//       - name: index
	//         in: path
	//         type: integer
	//         required: true
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/Proposal'
	//       400:
	//         description: Bad Request
	//       404:
	//         description: Not Found
	//       401: { description: Invalid API Token }
	idx, err := parseIndexParam(r)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedParsingProposalIndex, ctx.Log)
		return
	}

	prop, err := ctx.Node.LookupProposal(idx)
	if err != nil {
		engineErrorResponse(ctx, w, err, errInternalFailure)
		return
	}

	phase, err := ctx.Node.ProposalPhase(idx)
	if err != nil {
		engineErrorResponse(ctx, w, err, errInternalFailure)
		return
	}

	SendJSON(proposalModel(prop, phase), w, ctx.Log)
}

// PredictionList is an httpHandler for route GET /v1/proposals/:index/predictions
func PredictionList(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/proposals/{index}/predictions GetPredictionList
	//---
	//     Summary: Lists the predictions recorded for one proposal.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Parameters:
	//       - name: index
	//         in: path
	//         type: integer
	//         required: true
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/PredictionList'
	//       400:
	//         description: Bad Request
	//       404:
	//         description: Not Found
	//       401: { description: Invalid API Token }
	idx, err := parseIndexParam(r)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedParsingProposalIndex, ctx.Log)
		return
	}

	// Lookup first so an unknown index answers 404 rather than an empty list.
	if _, err := ctx.Node.LookupProposal(idx); err != nil {
		engineErrorResponse(ctx, w, err, errInternalFailure)
		return
	}

	response := v1.PredictionList{
		Proposal: uint64(idx),
		Predictions: util.Map(ctx.Node.Predictions(idx), func(pred arbitration.Prediction) v1.Prediction {
			return v1.Prediction{
				Proposal: uint64(pred.Proposal),
				Agent:    pred.Agent.String(),
				Support:  pred.Support,
			}
		}),
	}
	SendJSON(response, w, ctx.Log)
}

// SubmitPrediction is an httpHandler for route POST /v1/proposals/:index/predictions
func SubmitPrediction(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /v1/proposals/{index}/predictions SubmitPrediction
	//---
	//     Summary: Casts one agent's support or oppose vote on a proposal.
	//     Description: Rejected when the node requires signed submissions.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Parameters:
	//       - name: index
	//         in: path
	//         type: integer
	//         required: true
	//       - name: body
	//         in: body
	//         required: true
	//         schema:
	//           "$ref": '#/definitions/SubmitPredictionRequest'
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/Prediction'
	//       400:
	//         description: Bad Request
	//       404:
	//         description: Not Found
	//       500:
	//         description: Internal Error
	//       401: { description: Invalid API Token }
	if ctx.Node.Config().EnableSignedSubmissions {
		lib.ErrorResponse(w, http.StatusBadRequest, errors.New(errSignedSubmissionsRequired), errSignedSubmissionsRequired, ctx.Log)
		return
	}

	idx, err := parseIndexParam(r)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedParsingProposalIndex, ctx.Log)
		return
	}

	var req v1.SubmitPredictionRequest
	if err := decodeJSONRequest(r, &req); err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseRequestBody, ctx.Log)
		return
	}

	agent, err := crypto.DigestFromString(req.Agent)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseIdentity, ctx.Log)
		return
	}

	if err := ctx.Node.SubmitPrediction(agent, idx, req.Support); err != nil {
		engineErrorResponse(ctx, w, err, errInternalFailure)
		return
	}

	SendJSON(v1.Prediction{Proposal: uint64(idx), Agent: req.Agent, Support: req.Support}, w, ctx.Log)
}

// EvaluateDecision is an httpHandler for route POST /v1/proposals/:index/decision
func EvaluateDecision(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /v1/proposals/{index}/decision EvaluateDecision
	//---
	//     Summary: Computes the decision for a proposal from its final tallies.
	//     Description: Anyone holding an API token may trigger the evaluation; the outcome depends only on the recorded predictions.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Parameters:
	//       - name: index
	//         in: path
	//         type: integer
	//         required: true
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/Decision'
	//       400:
	//         description: Bad Request
	//       404:
	//         description: Not Found
	//       500:
	//         description: Internal Error
	//       401: { description: Invalid API Token }
	idx, err := parseIndexParam(r)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedParsingProposalIndex, ctx.Log)
		return
	}

	approved, err := ctx.Node.EvaluateDecision(idx)
	if err != nil {
		engineErrorResponse(ctx, w, err, errInternalFailure)
		return
	}

	prop, err := ctx.Node.LookupProposal(idx)
	if err != nil {
		lib.ErrorResponse(w, http.StatusInternalServerError, err, errInternalFailure, ctx.Log)
		return
	}

	SendJSON(v1.Decision{
		Proposal:     uint64(idx),
		Approved:     approved,
		SupportCount: prop.SupportCount,
		OpposeCount:  prop.OpposeCount,
	}, w, ctx.Log)
}

// RecordOutcome is an httpHandler for route POST /v1/proposals/:index/outcome
func RecordOutcome(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /v1/proposals/{index}/outcome RecordOutcome
	//---
	//     Summary: Records the outcome hash for a decided proposal.
	//     Description: Rejected when the node requires signed submissions.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Parameters:
	//       - name: index
	//         in: path
	//         type: integer
	//         required: true
	//       - name: body
	//         in: body
	//         required: true
	//         schema:
	//           "$ref": '#/definitions/RecordOutcomeRequest'
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/OutcomeReceipt'
	//       400:
	//         description: Bad Request
	//       404:
	//         description: Not Found
	//       500:
	//         description: Internal Error
	//       401: { description: Invalid API Token }
	if ctx.Node.Config().EnableSignedSubmissions {
		lib.ErrorResponse(w, http.StatusBadRequest, errors.New(errSignedSubmissionsRequired), errSignedSubmissionsRequired, ctx.Log)
		return
	}

	idx, err := parseIndexParam(r)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedParsingProposalIndex, ctx.Log)
		return
	}

	var req v1.RecordOutcomeRequest
	if err := decodeJSONRequest(r, &req); err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseRequestBody, ctx.Log)
		return
	}

	hash, err := crypto.DigestFromString(req.OutcomeHash)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseOutcomeHash, ctx.Log)
		return
	}

	if err := ctx.Node.RecordOutcome(idx, hash); err != nil {
		engineErrorResponse(ctx, w, err, errInternalFailure)
		return
	}

	SendJSON(v1.OutcomeReceipt{Proposal: uint64(idx), OutcomeHash: req.OutcomeHash}, w, ctx.Log)
}

// RawSignedProposal is an httpHandler for route POST /v1/submissions/proposal
func RawSignedProposal(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /v1/submissions/proposal RawSignedProposal
	//---
	//     Summary: Submits a signed proposal envelope.
	//     Description: The body is the canonical encoding of a signed proposal submission. The signature is checked against the proposer identity before the engine runs.
	//     Consumes:
	//     - application/x-binary
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/ProposalID'
	//       400:
	//         description: Bad Request
	//       500:
	//         description: Internal Error
	//       401: { description: Invalid API Token }
	var sp arbitration.SignedProposal
	if err := protocol.NewDecoder(r.Body).Decode(&sp); err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseSubmission, ctx.Log)
		return
	}

	idx, err := ctx.Node.SubmitSignedProposal(r.Context(), sp)
	if err != nil {
		engineErrorResponse(ctx, w, err, errInternalFailure)
		return
	}

	SendJSON(v1.ProposalID{Index: uint64(idx)}, w, ctx.Log)
}

// RawSignedPrediction is an httpHandler for route POST /v1/submissions/prediction
func RawSignedPrediction(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /v1/submissions/prediction RawSignedPrediction
	//---
	//     Summary: Submits a signed prediction envelope.
	//     Consumes:
	//     - application/x-binary
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/Prediction'
	//       400:
	//         description: Bad Request
	//       500:
	//         description: Internal Error
	//       401: { description: Invalid API Token }
	var sp arbitration.SignedPrediction
	if err := protocol.NewDecoder(r.Body).Decode(&sp); err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseSubmission, ctx.Log)
		return
	}

	if err := ctx.Node.SubmitSignedPrediction(r.Context(), sp); err != nil {
		engineErrorResponse(ctx, w, err, errInternalFailure)
		return
	}

	SendJSON(v1.Prediction{
		Proposal: uint64(sp.Prediction.Proposal),
		Agent:    sp.Prediction.Agent.String(),
		Support:  sp.Prediction.Support,
	}, w, ctx.Log)
}

// RawSignedOutcome is an httpHandler for route POST /v1/submissions/outcome
func RawSignedOutcome(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /v1/submissions/outcome RawSignedOutcome
	//---
	//     Summary: Submits a signed outcome attestation envelope.
	//     Consumes:
	//     - application/x-binary
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/OutcomeReceipt'
	//       400:
	//         description: Bad Request
	//       500:
	//         description: Internal Error
	//       401: { description: Invalid API Token }
	var so arbitration.SignedOutcome
	if err := protocol.NewDecoder(r.Body).Decode(&so); err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseSubmission, ctx.Log)
		return
	}

	if err := ctx.Node.RecordSignedOutcome(r.Context(), so); err != nil {
		engineErrorResponse(ctx, w, err, errInternalFailure)
		return
	}

	SendJSON(v1.OutcomeReceipt{
		Proposal:    uint64(so.Attestation.Proposal),
		OutcomeHash: so.Attestation.Hash.String(),
	}, w, ctx.Log)
}

// WriteSnapshot is an httpHandler for route POST /v1/snapshot
func WriteSnapshot(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /v1/snapshot WriteSnapshot
	//---
	//     Summary: Writes a compressed state snapshot to the data directory.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/SnapshotReceipt'
	//       500:
	//         description: Internal Error
	//       401: { description: Invalid API Token }
	path, err := ctx.Node.WriteSnapshot()
	if err != nil {
		lib.ErrorResponse(w, http.StatusInternalServerError, err, errFailedWritingSnapshot, ctx.Log)
		return
	}

	status, err := ctx.Node.Status()
	if err != nil {
		lib.ErrorResponse(w, http.StatusInternalServerError, err, errFailedRetrievingNodeStatus, ctx.Log)
		return
	}

	SendJSON(v1.SnapshotReceipt{Path: path, Sequence: status.JournalSequence}, w, ctx.Log)
}
