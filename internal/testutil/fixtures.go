package testutil

// SampleHandoff is a HANDOFF.md with warnings, a placeholder and open checklist items.
const SampleHandoff = `# Handoff

## Summary
Worked on the sync engine.

## Warnings
- fix race condition
- (none yet)
### Details
- [ ] add retry logic

## Next Steps
- [ ] write migration guide
- [x] ship v1
`

// SampleRoadmap is a ROADMAP.md with nested sections and mixed checklist states.
const SampleRoadmap = `- [ ] orphan item before any heading

# Roadmap

## Q1
- [ ] design plugin API
- [x] publish RFC

### Storage
  - [ ] add sqlite backend

#### Deep heading is not a section
- [ ] benchmark writes
`

// SampleIssuesJSON is a gh issue list --json number,title,labels,body response.
const SampleIssuesJSON = `[
  {"number": 12, "title": "Crash on empty config", "labels": [{"name": "bug"}, {"name": "autopilot"}], "body": "Steps to reproduce:\nrun with empty file"},
  {"number": 15, "title": "Add dark mode", "labels": [{"name": "autopilot"}], "body": "Add dark mode"},
  {"number": 18, "title": "Blocked on vendor", "labels": [{"name": "autopilot"}, {"name": "blocked"}], "body": ""},
  {"number": 21, "title": "Improve docs", "labels": [], "body": ""}
]`
