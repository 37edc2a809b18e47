package factory

// FleetCategoriesJSON is the check-type category set a new fleet starts with.
const FleetCategoriesJSON = `[
  {"code": "Flight Checks", "description": "Line and proficiency checks", "grace_period_days": 30},
  {"code": "Simulator Checks", "description": "Recurrent simulator sessions", "grace_period_days": 30},
  {"code": "Ground Courses Refresher", "description": "Recurrent ground training", "grace_period_days": 60},
  {"code": "Pilot Medical", "description": "Class 1 aviation medical", "grace_period_days": 0},
  {"code": "ID Cards", "display_name": "ID Cards", "description": "Airside and crew identification", "grace_period_days": 0},
  {"code": "Travel Visa", "description": "Crew travel documents", "grace_period_days": 0}
]`
