package http

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"

	"github.com/vncsmyrnk/quickpoll/internal/core/domain"
	"github.com/vncsmyrnk/quickpoll/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
	logger  *slog.Logger
}

func NewVoteHandler(service ports.VoteService, logger *slog.Logger) *VoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &VoteHandler{
		service: service,
		logger:  logger,
	}
}

// CastVote godoc
// @Summary      Votes for a poll option
// @Description  The voter is identified by the client address
// @Tags         votes
// @Produce      json
// @Success      201  {object}  domain.PollVote
// @Failure      404  {object}  messageResponse
// @Failure      409  {object}  messageResponse
// @Router       /poll-options/{id}/votes [post]
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	optionID, ok := parseID(w, r, h.logger, "invalid poll option id")
	if !ok {
		return
	}

	voter, err := voterFromRequest(r)
	if err != nil {
		h.logger.Error("failed to resolve voter address", "remote_addr", r.RemoteAddr, "error", err)
		writeMessage(w, h.logger, http.StatusInternalServerError, domain.ErrInternal.Error())
		return
	}

	vote, err := h.service.CheckAndCast(r.Context(), ports.VoteInput{
		OptionID: optionID,
		Voter:    voter,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, vote)
}

// voterFromRequest reads the client address from RemoteAddr, which is
// "host:port" for direct peers or a bare address once RealIP rewrote it.
func voterFromRequest(r *http.Request) (netip.Prefix, error) {
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		host = h
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Prefix{}, err
	}
	return domain.VoterFromAddr(addr)
}
