package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `attendance tracks class attendance per subject against a 75% requirement.

Core concepts:
- Subject: a course with a name plus attended and total class counts you enter. Counts may be empty.
- History: classes recorded per calendar day (YYYY-MM-DD), keyed by subject name.
- Stats: percentage = attended/total; status is safe at 75% or more, danger below, neutral with no data.

Default workflow:
1) Orient: call get_overview (percentages, classes needed, classes you can skip).
2) Browse: list_subjects for ids and names; get_heatmap or get_history for day-by-day attendance.
3) Edit subjects: add_subject, update_subject (field name/attended/total), remove_subject.
4) Record classes: save_attendance for several subjects on one day; record_attendance / remove_attendance
   for one subject; mark_day / unmark_day to step a single day up or down.
5) Audit: get_recent_activity lists changes newest first.

Docs:
- attendance://docs/index
- attendance://docs/stats
- attendance://docs/history
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "attendance://docs/index",
		Name:        "docs_index",
		Title:       "attendance docs index",
		Description: "Entry point: tools, when to use them, and known limitations.",
		Content: `# attendance: Docs Index

## Quick start

1. ` + "`get_overview`" + ` to see where every subject stands.
2. ` + "`list_subjects`" + ` to find subject ids (needed by ` + "`update_subject`" + ` and ` + "`remove_subject`" + `).
3. ` + "`save_attendance`" + ` with today's subjects after class.

## Docs

- ` + "`attendance://docs/stats`" + ` - how percentages and projections are computed.
- ` + "`attendance://docs/history`" + ` - the day-by-day history, heatmap and streaks.

## Limitations

- Subject counts and day history are independent: recording a class does not change a subject's counts.
- History is keyed by subject name. Two subjects with the same name share one history.
`,
	},
	{
		URI:         "attendance://docs/stats",
		Name:        "docs_stats",
		Title:       "Attendance statistics",
		Description: "Percentages, status and the 75% projections.",
		Content: `# Statistics

- **Percentage**: attended / total x 100, rounded to two decimals. 0 when total is 0.
- **Status**: ` + "`safe`" + ` at 75% or more, ` + "`danger`" + ` below, ` + "`neutral`" + ` when counts are missing or total is 0.
- **Classes needed**: consecutive classes to attend to reach 75%: 3 x total - 4 x attended.
  Example: 20 of 40 needs 40 more (60 of 80).
- **Classes you can skip**: classes you can miss and stay at 75%: floor((4 x attended - 3 x total) / 3).
  Example: 40 of 40 can skip 13.
- **Overall**: sums attended and total over every subject. Empty counts count as 0.
`,
	},
	{
		URI:         "attendance://docs/history",
		Name:        "docs_history",
		Title:       "Attendance history",
		Description: "Day records, heatmap levels, streaks and contributions.",
		Content: `# History

- Each day maps subject names to the number of classes recorded that day.
- Days use the server's configured time zone.
- ` + "`save_attendance`" + ` and ` + "`mark_day`" + ` reject dates after today; ` + "`record_attendance`" + ` does not.
- Renaming a subject moves its history to the new name. Removing a subject deletes its history.

## Heatmap

- One year ending today, in Sunday-first week columns. Cells outside the year are padding.
- Level = classes that day (for the filter), capped at 3.
- **Current streak**: consecutive days with attendance ending today; 0 if today is empty.
- **Total contributions**: classes recorded within the window.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
