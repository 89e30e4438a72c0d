package responder

import (
	"fmt"
	"strings"

	"github.com/hrkit/chartbot/pkg/models"
)

// renderData produces the deterministic template response for a successful
// data result. Unknown payload shapes fall through to the generic fallback.
func renderData(intent models.QueryIntent, payload any) string {
	switch data := payload.(type) {
	case *models.ProfileData:
		return renderProfile(intent, data)
	case *models.AttendanceData:
		return renderAttendance(data)
	case *models.LeaveData:
		return renderLeave(intent, data)
	case *models.PayrollData:
		return renderPayroll(data)
	case *models.TeamData:
		return renderTeam(data)
	case *models.CompanyData:
		return renderCompany(data)
	default:
		return "I found your data but couldn't format it. Please try rephrasing your question."
	}
}

func renderProfile(intent models.QueryIntent, data *models.ProfileData) string {
	// A personal-info question about a single field gets a single-field
	// answer instead of the full profile dump.
	if intent.Type == models.QueryTypePersonalInfo {
		lower := strings.ToLower(intent.RawText)
		switch {
		case strings.Contains(lower, "email"):
			return fmt.Sprintf("Your email address on record is %s.", data.Email)
		case strings.Contains(lower, "phone"), strings.Contains(lower, "contact"):
			return fmt.Sprintf("Your phone number on record is %s.", data.Phone)
		case strings.Contains(lower, "badge"), strings.Contains(lower, "employee id"):
			return fmt.Sprintf("Your badge ID is %s.", data.BadgeID)
		case strings.Contains(lower, "manager"), strings.Contains(lower, "report"):
			if data.Manager == "" {
				return "You don't have a reporting manager on record."
			}
			return fmt.Sprintf("You report to %s.", data.Manager)
		case strings.Contains(lower, "department"):
			return fmt.Sprintf("You are in the %s department.", data.Department)
		}
	}

	var sb strings.Builder
	sb.WriteString("Here are your profile details:\n")
	sb.WriteString(fmt.Sprintf("- Name: %s\n", data.FullName))
	sb.WriteString(fmt.Sprintf("- Badge ID: %s\n", data.BadgeID))
	sb.WriteString(fmt.Sprintf("- Email: %s\n", data.Email))
	if data.Phone != "" {
		sb.WriteString(fmt.Sprintf("- Phone: %s\n", data.Phone))
	}
	sb.WriteString(fmt.Sprintf("- Department: %s\n", data.Department))
	sb.WriteString(fmt.Sprintf("- Position: %s\n", data.Position))
	if data.Manager != "" {
		sb.WriteString(fmt.Sprintf("- Manager: %s\n", data.Manager))
	}
	if !data.JoiningDate.IsZero() {
		sb.WriteString(fmt.Sprintf("- Joined: %s\n", data.JoiningDate.Format("2 January 2006")))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderAttendance(data *models.AttendanceData) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Here's your attendance from %s to %s:\n",
		data.PeriodFrom.Format("2 Jan 2006"), data.PeriodTo.Format("2 Jan 2006")))
	sb.WriteString(fmt.Sprintf("- Present: %d of %d working days (%.1f%%)\n",
		data.PresentDays, data.TotalDays, data.Percentage))
	sb.WriteString(fmt.Sprintf("- Absent: %d days", data.AbsentDays))

	if len(data.Recent) > 0 {
		sb.WriteString("\n\nRecent days:")
		for i, day := range data.Recent {
			if i == 3 {
				break
			}
			status := "absent"
			if day.Present {
				status = fmt.Sprintf("present (%s to %s)", day.CheckIn, day.CheckOut)
			}
			sb.WriteString(fmt.Sprintf("\n- %s: %s", day.Date.Format("Mon 2 Jan"), status))
		}
	}
	return sb.String()
}

func renderLeave(intent models.QueryIntent, data *models.LeaveData) string {
	balances := data.Balances
	if wanted, ok := intent.Parameters["leave_type"].(string); ok {
		var filtered []models.LeaveBalance
		for _, b := range balances {
			if strings.EqualFold(b.LeaveType, wanted) || strings.Contains(strings.ToLower(b.LeaveType), wanted) {
				filtered = append(filtered, b)
			}
		}
		if len(filtered) > 0 {
			balances = filtered
		}
	}

	if len(balances) == 0 {
		return "You don't have any leave allocations on record."
	}

	var sb strings.Builder
	sb.WriteString("Here's your leave balance:\n")
	for _, b := range balances {
		sb.WriteString(fmt.Sprintf("- %s: %.1f of %.1f days remaining (%.1f used)\n",
			b.LeaveType, b.Remaining, b.Allocated, b.Used))
	}

	if len(data.Recent) > 0 {
		sb.WriteString("\nRecent requests:\n")
		for i, req := range data.Recent {
			if i == 3 {
				break
			}
			sb.WriteString(fmt.Sprintf("- %s, %s to %s (%.1f days): %s\n",
				req.LeaveType, req.StartDate.Format("2 Jan"), req.EndDate.Format("2 Jan 2006"),
				req.Days, req.Status))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderPayroll(data *models.PayrollData) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Your payslip for %s %d:\n", data.Month, data.Year))
	sb.WriteString(fmt.Sprintf("- Basic salary: %.2f\n", data.BasicSalary))
	sb.WriteString(fmt.Sprintf("- Allowances: %.2f\n", data.TotalAllowances))
	sb.WriteString(fmt.Sprintf("- Gross salary: %.2f\n", data.GrossSalary))
	sb.WriteString(fmt.Sprintf("- Deductions: %.2f\n", data.TotalDeductions))
	sb.WriteString(fmt.Sprintf("- Net pay: %.2f", data.NetSalary))
	if data.Status != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", data.Status))
	}
	return sb.String()
}

func renderTeam(data *models.TeamData) string {
	if len(data.Members) == 0 {
		return "No team members are linked to your record."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Your team has %d member", len(data.Members)))
	if len(data.Members) != 1 {
		sb.WriteString("s")
	}
	sb.WriteString(":\n")
	for _, m := range data.Members {
		sb.WriteString(fmt.Sprintf("- %s, %s (%s)\n", m.Name, m.Position, m.Department))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderCompany(data *models.CompanyData) string {
	var sb strings.Builder
	sb.WriteString("Company overview for today:\n")
	sb.WriteString(fmt.Sprintf("- Total employees: %d\n", data.TotalEmployees))
	sb.WriteString(fmt.Sprintf("- Present today: %d\n", data.PresentToday))
	sb.WriteString(fmt.Sprintf("- Absent today: %d\n", data.AbsentToday))
	sb.WriteString(fmt.Sprintf("- Attendance: %.1f%%\n", data.AttendancePercentage))
	sb.WriteString(fmt.Sprintf("- Pending leave requests: %d", data.PendingLeaveRequests))
	return sb.String()
}

func (g *Generator) greeting(role models.Role) string {
	if role == models.RoleGuest {
		return fmt.Sprintf("Hello! I'm %s, your HR assistant. I couldn't find an employee record linked to your account, so I can't look up HR data for you yet. Please contact HR to get your account linked.", g.botName)
	}
	return fmt.Sprintf("Hello! I'm %s, your HR assistant. You can ask me about your attendance, leave balance, payroll or profile. Type \"help\" to see everything I can do.", g.botName)
}

func (g *Generator) help(role models.Role) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("I'm %s. Here's what you can ask me:\n", g.botName))
	sb.WriteString("- \"What is my attendance this month?\"\n")
	sb.WriteString("- \"Show my leave balance\"\n")
	sb.WriteString("- \"What is my net salary?\"\n")
	sb.WriteString("- \"Show my profile details\"\n")

	switch role {
	case models.RoleHRManager:
		sb.WriteString("- \"Show my team members\"\n")
		sb.WriteString("- \"Show my team's attendance\"\n")
	case models.RoleAdmin:
		sb.WriteString("- \"Show my team members\"\n")
		sb.WriteString("- \"Show company statistics\"\n")
	}

	sb.WriteString("\nYou can add a time period, for example \"last month\" or \"this week\".")
	return sb.String()
}

func (g *Generator) fallback() string {
	return fmt.Sprintf("I'm not sure I understood that. I'm %s and I can help with attendance, leave, payroll and profile questions. Type \"help\" to see examples.", g.botName)
}
