package harness

import (
	"fmt"

	"townreeve/internal/domain/governance"
	"townreeve/internal/domain/town"
)

type preconditionChecker func(pc governance.Precondition, s town.State) (ok bool, detail string)

func preconditionCheckers() map[governance.PreconditionKind]preconditionChecker {
	return map[governance.PreconditionKind]preconditionChecker{
		governance.PreconditionMissionAbsent:         checkMissionAbsent,
		governance.PreconditionSideQuestExists:       checkSideQuestExists,
		governance.PreconditionProjectExists:         checkProjectExists,
		governance.PreconditionSalvageFocusSupported: checkSalvageFocusSupported,
		governance.PreconditionTalkTypeSupported:     checkTalkTypeSupported,
	}
}

// evaluatePreconditions runs every guard without short-circuiting, so the
// full failure list is reported at once. An unrecognized kind is itself a
// failure: an unknown guard must never be treated as satisfied.
func evaluatePreconditions(pcs []governance.Precondition, s town.State) []governance.PreconditionFailure {
	checkers := preconditionCheckers()
	var failures []governance.PreconditionFailure
	for _, pc := range pcs {
		checker, known := checkers[pc.Kind]
		if !known {
			failures = append(failures, governance.PreconditionFailure{
				Kind:   pc.Kind,
				Detail: "unsupported precondition kind",
			})
			continue
		}
		if ok, detail := checker(pc, s); !ok {
			failures = append(failures, governance.PreconditionFailure{Kind: pc.Kind, Detail: detail})
		}
	}
	return failures
}

func checkMissionAbsent(_ governance.Precondition, s town.State) (bool, string) {
	if s.Mission != nil {
		return false, fmt.Sprintf("mission %q is already active", s.Mission.ID)
	}
	return true, ""
}

func checkSideQuestExists(pc governance.Precondition, s town.State) (bool, string) {
	if !s.HasSideQuest(pc.TargetID) {
		return false, fmt.Sprintf("side quest %q not found", pc.TargetID)
	}
	return true, ""
}

func checkProjectExists(pc governance.Precondition, s town.State) (bool, string) {
	if !s.HasProject(pc.TargetID) {
		return false, fmt.Sprintf("project %q not found", pc.TargetID)
	}
	return true, ""
}

func checkSalvageFocusSupported(pc governance.Precondition, s town.State) (bool, string) {
	if !s.SupportsSalvageFocus(pc.Expected) {
		return false, fmt.Sprintf("salvage focus %q is not supported", pc.Expected)
	}
	return true, ""
}

func checkTalkTypeSupported(pc governance.Precondition, s town.State) (bool, string) {
	if !s.SupportsTalkType(pc.Expected) {
		return false, fmt.Sprintf("talk type %q is not supported", pc.Expected)
	}
	return true, ""
}
