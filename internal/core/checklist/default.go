package checklist

// DefaultSections returns the built-in checklist used when no definition
// has been stored: five sections of ten questions covering a full
// warehouse security audit cycle.
func DefaultSections() []Section {
	return []Section{
		{
			ID:    "opening",
			Title: "Module 1: Opening (Daily)",
			Icon:  "shield",
			Questions: []string{
				"1.1 Are perimeter accesses, doors and locks intact, with no signs of tampering?",
				"1.2 Was the alarm system deactivated correctly without triggering intrusion alerts?",
				"1.3 Are all security cameras (internal/external) operational and recording correctly?",
				"1.4 Is all lighting in operating and common areas working correctly?",
				"1.5 Are emergency exits and evacuation routes 100% clear and accessible?",
				"1.6 Is emergency equipment (extinguishers, first-aid kits) in place and in good condition?",
				"1.7 Does the opening count of critical items match the previous closing record?",
				"1.8 Is material handling equipment (forklifts, etc.) in its zone and operational?",
				"1.9 Does the night shift or security guard log report no risk events?",
				"1.10 Is all incoming staff wearing complete uniform and visible identification?",
			},
			Feedback: Feedback{
				Critical: "Critical opening risk. The shift starts with serious vulnerabilities that must be addressed immediately.",
				Warning:  "Opening with warnings. Minor faults were detected and must be corrected to secure the operation.",
				Optimal:  "Optimal opening. The warehouse is secure and ready to operate with no identified risks.",
			},
		},
		{
			ID:    "closing",
			Title: "Module 2: Closing (Daily)",
			Icon:  "lock",
			Questions: []string{
				"2.1 Does the closing count of critical items match the theoretical system balance?",
				"2.2 Is all high-value merchandise stored and secured in its designated area?",
				"2.3 Have waste containers and compactors been checked to prevent theft?",
				"2.4 Are all doors, dock gates and windows closed and secured?",
				"2.5 Was the alarm system armed correctly and confirmed by the monitoring center?",
				"2.6 Were all keys, access cards and radios returned to the control board?",
				"2.7 Are work areas clean and tidy, with no material that could conceal products?",
				"2.8 Has all non-essential equipment (lights, computers, chargers) been switched off?",
				"2.9 Has the daily incident report been completed and sent to the right people?",
				"2.10 Has the closing supervisor signed the log confirming completion of every point?",
			},
			Feedback: Feedback{
				Critical: "Deficient closing. The warehouse is exposed to significant risks overnight.",
				Warning:  "Closing with observations. Some tasks were not completed and require follow-up.",
				Optimal:  "Secure closing. The warehouse is properly secured and processes reconciled.",
			},
		},
		{
			ID:    "operations",
			Title: "Module 3: Processes and Operations",
			Icon:  "package",
			Questions: []string{
				"3.1 (Audit) Is receiving staff verifying 100% of merchandise against the purchase order?",
				"3.2 (Audit) Is dispatch staff performing double verification to avoid shipping errors?",
				"3.3 (Observation) Is access control to restricted areas being respected at all times?",
				"3.4 Are all team personal belongings stored in the designated lockers?",
				"3.5 Are visitors and contractors properly registered, identified and escorted?",
				"3.6 Is shrinkage processed and recorded per protocol to prevent theft?",
				"3.7 Is the handling and custody protocol for critical-area keys being followed?",
				"3.8 (Audit) Do merchandise returns carry complete supporting documentation?",
				"3.9 Is anti-theft tag deactivation performed only at the final point?",
				"3.10 Are cash handling procedures (if applicable) followed without exceptions?",
			},
			Feedback: Feedback{
				Critical: "Serious process failures. High risk of internal loss or costly operational errors.",
				Warning:  "Operational deviations. Retraining and supervision are needed on key protocols.",
				Optimal:  "Controlled operation. Processes are executed reliably and safely.",
			},
		},
		{
			ID:    "inventory",
			Title: "Module 4: Inventory and Assets",
			Icon:  "clipboard",
			Questions: []string{
				"4.1 (Cycle count) Does the physical quantity of an audited high-value SKU match the system?",
				"4.2 (Cycle count) Is the count of a random warehouse location 100% correct?",
				"4.3 Are previous inventory discrepancy investigations all closed with root cause identified?",
				"4.4 Do all negative inventory adjustments have justification and management authorization?",
				"4.5 (Inspection) Has random shelf-box inspection revealed no empty boxes?",
				"4.6 Is all merchandise in the receiving area labeled and registered in the system?",
				"4.7 Is the inventory system free of unresolved negative balances?",
				"4.8 Are all merchandise transfers between areas documented and signed?",
				"4.9 Is the company asset inventory (scanners, etc.) complete and up to date?",
				"4.10 Does the physical product location match the location registered in the system?",
			},
			Feedback: Feedback{
				Critical: "Deficient inventory control. Elevated risk of unknown loss and stockouts.",
				Warning:  "Inventory discrepancies. Attention is required to correct system inaccuracies.",
				Optimal:  "Reliable inventory. System records accurately reflect physical reality.",
			},
		},
		{
			ID:    "incidents",
			Title: "Module 5: Incident Response",
			Icon:  "siren",
			Questions: []string{
				"5.1 Was the established protocol applied to every reported incident?",
				"5.2 Were all relevant events of the day formally documented in the log or system?",
				"5.3 Were incidents communicated on time to the right people and departments?",
				"5.4 Have previously implemented corrective actions proven effective?",
				"5.5 Are current security procedures sufficient and being complied with?",
				"5.6 Were emergency protocols followed correctly, where applicable?",
				"5.7 Are recurring incident patterns being analyzed and managed?",
				"5.8 Has the team response to security situations been adequate and coordinated?",
				"5.9 Are event records and logs complete and up to date?",
				"5.10 Have lessons learned from past incidents been communicated and applied?",
			},
			Feedback: Feedback{
				Critical: "Ineffective incident management. The team is unprepared and risks are not mitigated.",
				Warning:  "Incident response needs improvement. Documentation or communication must be reinforced.",
				Optimal:  "Proactive incident management. The team is prepared and learns from every event.",
			},
		},
	}
}
