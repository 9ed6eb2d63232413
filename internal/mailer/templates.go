package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/senyabanana/procurement-service/internal/models"
)

var rfpTemplate = template.Must(template.New("rfp").Parse(`<div style="font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto;">
  <h2 style="color: #2c3e50;">Request for Proposal</h2>
  <div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p><strong>Reference ID:</strong> {{.ReferenceID}}</p>
    <p><strong>Deadline:</strong> {{.Deadline}}</p>
  </div>
  <h3 style="color: #34495e;">Project Overview</h3>
  <p>{{.RFP.Description}}</p>
  <h3 style="color: #34495e;">Requirements</h3>
  <ol>{{range .RFP.Requirements}}
    <li>{{.Item}} - {{.Specification}} (Quantity: {{.Quantity}})</li>{{end}}
  </ol>
  <h3 style="color: #34495e;">Budget</h3>
  <p>{{.Budget}}</p>{{if .RFP.SpecialRequirements}}
  <h3 style="color: #34495e;">Special Requirements</h3>
  <p>{{.RFP.SpecialRequirements}}</p>{{end}}
  <h3 style="color: #34495e;">Evaluation Criteria</h3>
  <ol>{{range .Criteria}}
    <li>{{.}}</li>{{end}}
  </ol>
  <h3 style="color: #34495e;">Submission Instructions</h3>
  <p>Please reply to this email with your proposal including:</p>
  <ul>
    <li>Detailed pricing breakdown</li>
    <li>Payment terms</li>
    <li>Delivery timeline</li>
    <li>Warranty and support information</li>
    <li>Any special conditions or notes</li>
  </ul>
  <p><strong>Important:</strong> Please keep the reference ID ({{.ReferenceID}}) in the subject line when replying.</p>
  <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd; color: #7f8c8d; font-size: 12px;">
    <p>This is an automated email from the procurement system.</p>
  </div>
</div>`))

var statusTemplate = template.Must(template.New("status").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #667eea; padding: 30px; text-align: center;">
    <h1 style="color: white; margin: 0;">Proposal Status Update</h1>
  </div>
  <div style="padding: 30px; background-color: #f9f9f9;">
    <div style="background: white; padding: 25px; border-radius: 8px;">{{range .}}
      <p style="line-height: 1.6; color: #333;">{{.}}</p>{{end}}
    </div>
  </div>
  <div style="background-color: #333; color: white; padding: 20px; text-align: center; font-size: 12px;">
    <p style="margin: 0;">This is an automated message from the procurement system.</p>
  </div>
</div>`))

// RFPSubject is the subject of an RFP invitation. Replies keep the reference ID.
func RFPSubject(title, referenceID string) string {
	return fmt.Sprintf("RFP: %s - Ref: %s", title, referenceID)
}

// RenderRFP renders the HTML body of an RFP invitation.
func RenderRFP(rfp models.RFP, referenceID string) (string, error) {
	data := struct {
		RFP         models.RFP
		ReferenceID string
		Deadline    string
		Budget      string
		Criteria    []string
	}{
		RFP:         rfp,
		ReferenceID: referenceID,
		Deadline:    "Not specified",
		Budget:      "Not specified",
		Criteria:    rfp.EvaluationCriteria,
	}
	if rfp.Deadline != nil {
		data.Deadline = rfp.Deadline.Format(time.DateOnly)
	}
	if rfp.Budget != nil && *rfp.Budget != "" {
		data.Budget = *rfp.Budget
	}
	if len(data.Criteria) == 0 {
		data.Criteria = []string{"Price", "Quality", "Delivery Time"}
	}

	var buf bytes.Buffer
	if err := rfpTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render rfp email: %w", err)
	}
	return buf.String(), nil
}

// StatusSubject is the subject of an acceptance or rejection email.
func StatusSubject(decision models.ProposalStatus, rfpTitle string) string {
	if decision == models.AcceptedProposal {
		return "✓ Proposal Accepted - " + rfpTitle
	}
	return "Proposal Update - " + rfpTitle
}

// RenderStatus wraps a plain text body into the status email layout, one
// paragraph per line.
func RenderStatus(body string) (string, error) {
	var buf bytes.Buffer
	if err := statusTemplate.Execute(&buf, strings.Split(body, "\n")); err != nil {
		return "", fmt.Errorf("render status email: %w", err)
	}
	return buf.String(), nil
}
