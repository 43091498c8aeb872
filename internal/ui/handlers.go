package ui

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"rollcall/internal/domain"

	. "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	. "maragu.dev/gomponents/html"
)

const evidenceViewExpiry = 10 * time.Minute

type dashboardRow struct {
	RecordID   string
	IdentityID string
	Email      string
	Role       string
	OccurredAt string
	Evidence   string // presigned view URL, empty when unavailable
}

// Dashboard renders the attendance table, optionally filtered to one
// calendar day via ?date=.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	records, err := h.Report.List(r.Context(), date)
	if err != nil {
		h.renderServiceError(w, err)
		return
	}

	rows := make([]dashboardRow, 0, len(records))
	for _, rec := range records {
		row := dashboardRow{
			RecordID:   rec.RecordID,
			IdentityID: rec.IdentityID,
			Email:      strOrDash(rec.Email),
			OccurredAt: formatTime(rec.OccurredAt),
		}
		if rec.Role != nil {
			row.Role = string(*rec.Role)
		} else {
			row.Role = "-"
		}
		if h.Evidence != nil && rec.EvidenceRef != nil {
			if url, err := h.Evidence.PresignView(r.Context(), *rec.EvidenceRef, evidenceViewExpiry); err == nil {
				row.Evidence = url
			}
		}
		rows = append(rows, row)
	}

	renderHTML(w, http.StatusOK, dashboardPage(identityFromContext(r.Context()), date, rows))
}

// MarkPage renders the marking form.
func (h *Handler) MarkPage(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, http.StatusOK, markPage(identityFromContext(r.Context()), ""))
}

// MarkSubmit appends a record for the signed-in identity.
func (h *Handler) MarkSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderHTML(w, http.StatusBadRequest, errorPage("Invalid Request", "Could not parse the form."))
		return
	}
	identity := identityFromContext(r.Context())

	var evidenceRef *string
	if ref := strings.TrimSpace(r.Form.Get("evidence_ref")); ref != "" {
		evidenceRef = &ref
	}

	if _, err := h.Ledger.Mark(r.Context(), identity.ID, evidenceRef); err != nil {
		renderHTML(w, http.StatusOK, markPage(identity, err.Error()))
		return
	}
	http.Redirect(w, r, "/ui", http.StatusSeeOther)
}

// ProfilePage shows the signed-in identity's profile and, when the role is
// still unresolved, the role selection form.
func (h *Handler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())

	profile, err := h.Profiles.Get(r.Context(), identity.ID)
	var notFound *domain.NotFoundError
	switch {
	case err == nil:
	case errors.As(err, &notFound):
		profile = nil
	default:
		h.renderServiceError(w, err)
		return
	}

	renderHTML(w, http.StatusOK, profilePage(identity, profile, ""))
}

// ProfileSubmit resolves the signed-in identity's role.
func (h *Handler) ProfileSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderHTML(w, http.StatusBadRequest, errorPage("Invalid Request", "Could not parse the form."))
		return
	}
	identity := identityFromContext(r.Context())

	profile, err := h.Profiles.Register(r.Context(), identity.ID, identity.Email, r.Form.Get("role"))
	if err != nil {
		renderHTML(w, http.StatusOK, profilePage(identity, nil, err.Error()))
		return
	}
	renderHTML(w, http.StatusOK, profilePage(identity, profile, ""))
}

func (h *Handler) renderServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	title := "Unexpected Error"
	message := "An unexpected error occurred while loading this page."

	var notFound *domain.NotFoundError
	var validation *domain.ValidationError
	var unavailable *domain.UnavailableError
	if errors.As(err, &notFound) {
		status = http.StatusNotFound
		title = "Not Found"
		message = notFound.Error()
	} else if errors.As(err, &validation) {
		status = http.StatusBadRequest
		title = "Invalid Request"
		message = validation.Error()
	} else if errors.As(err, &unavailable) {
		status = http.StatusServiceUnavailable
		title = "Store Unavailable"
		message = "The ledger store is currently unavailable. Try again shortly."
	}
	renderHTML(w, status, errorPage(title, message))
}

func dashboardPage(identity domain.ContextIdentity, date string, rows []dashboardRow) Node {
	tableRows := make([]Node, 0, len(rows))
	for _, row := range rows {
		evidence := Node(Text("-"))
		if row.Evidence != "" {
			evidence = A(Href(row.Evidence), Target("_blank"), Text("View photo"))
		}
		tableRows = append(tableRows, Tr(
			data.Show(containsExpr(row.IdentityID+" "+row.Email+" "+row.Role)),
			Td(Text(row.OccurredAt)),
			Td(Text(row.IdentityID)),
			Td(Text(row.Email)),
			Td(Text(row.Role)),
			Td(evidence),
		))
	}

	body := []Node{
		data.Signals(map[string]any{"q": ""}),
		Div(Class("card"),
			Form(
				Method("get"),
				Action("/ui"),
				Class("d-flex flex-items-center gap-2"),
				Label(Text("Day")),
				Input(Type("date"), Name("date"), Value(date)),
				Button(Type("submit"), Class("btn btn-sm"), Text("Filter")),
				A(Href("/ui"), Class("btn btn-sm"), Text("All days")),
			),
		),
		Div(Class("card"),
			Label(Text("Quick filter")),
			Input(Type("text"), data.Bind("q"), Placeholder("Filter by identity, email or role")),
		),
	}
	if len(rows) == 0 {
		body = append(body, Div(Class("card"), P(Class("color-fg-muted"), Text("No attendance records for this selection."))))
	} else {
		body = append(body, Div(Class("card"),
			Table(Class("width-full"),
				THead(Tr(
					Th(Text("Occurred at")),
					Th(Text("Identity")),
					Th(Text("Email")),
					Th(Text("Role")),
					Th(Text("Evidence")),
				)),
				TBody(Group(tableRows)),
			),
		))
	}

	return appPage("Attendance", "dashboard", identity, body...)
}

func markPage(identity domain.ContextIdentity, errMsg string) Node {
	body := []Node{}
	if errMsg != "" {
		body = append(body, Div(Class("flash flash-error"), Text(errMsg)))
	}
	body = append(body, Div(Class("card"),
		P(Text("Record your attendance for right now. The server clock decides the timestamp.")),
		Form(
			Method("post"),
			Action("/ui/mark"),
			Label(Text("Evidence reference (optional)")),
			Input(Type("text"), Name("evidence_ref"), Placeholder("s3://bucket/key or any opaque handle")),
			Button(Type("submit"), Class("btn btn-primary"), Text("Mark attendance")),
		),
	))
	return appPage("Mark attendance", "mark", identity, body...)
}

func profilePage(identity domain.ContextIdentity, profile *domain.IdentityProfile, errMsg string) Node {
	body := []Node{}
	if errMsg != "" {
		body = append(body, Div(Class("flash flash-error"), Text(errMsg)))
	}

	if profile != nil && profile.Role.Concrete() {
		body = append(body, Div(Class("card"),
			H3(Text("Your profile")),
			P(Text("Email: "+profile.Email)),
			P(Text("Role: "+string(profile.Role))),
			P(Class("color-fg-muted text-small"), Text("Roles are fixed once chosen.")),
		))
	} else {
		body = append(body, Div(Class("card"),
			H3(Text("Choose your role")),
			P(Text("Pick the role for this account. This choice is permanent.")),
			Form(
				Method("post"),
				Action("/ui/profile"),
				Select(
					Name("role"),
					Option(Value("student"), Text("Student")),
					Option(Value("faculty"), Text("Faculty")),
					Option(Value("corporate"), Text("Corporate")),
				),
				Button(Type("submit"), Class("btn btn-primary"), Text("Save role")),
			),
		))
	}

	return appPage("Profile", "profile", identity, body...)
}
