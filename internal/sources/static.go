package sources

import (
	"context"
	"strings"

	"github.com/cametumbling/discovery-pipeline/internal/discovery"
)

// verifiedURLs are German health-tech homepages confirmed by hand.
var verifiedURLs = []string{
	"https://www.acalta.de",
	"https://www.actimi.com",
	"https://www.emmora.de",
	"https://www.alfa-ai.com",
	"https://www.apheris.com",
	"https://www.aporize.com/",
	"https://www.arztlena.com/",
	"https://shop.getnutrio.com/",
	"https://www.auta.health/",
	"https://visioncheckout.com/",
	"https://www.avayl.tech/",
	"https://www.avimedical.com/avi-impact",
	"https://de.becureglobal.com/",
	"https://bellehealth.co/de/",
	"https://www.biotx.ai/",
	"https://www.brainjo.de/",
	"https://brea.app/",
	"https://breathment.com/",
	"https://de.caona.eu/",
	"https://www.careanimations.de/",
	"https://sfs-healthcare.com",
	"https://www.climedo.de/",
	"https://www.cliniserve.de/",
	"https://cogthera.de/#erfahren",
	"https://www.comuny.de/",
	"https://curecurve.de/elina-app/",
	"https://www.cynteract.com/de/rehabilitation",
	"https://www.healthmeapp.de/de/",
	"https://deepeye.ai/",
	"https://www.deepmentation.ai/",
	"https://denton-systems.de/",
	"https://www.derma2go.com/",
	"https://www.dianovi.com/",
	"http://dopavision.com/",
	"https://www.dpv-analytics.com/",
	"http://www.ecovery.de/",
	"https://elixionmedical.com/",
	"https://www.empident.de/",
	"https://eye2you.ai/",
	"https://www.fitwhit.de",
	"https://www.floy.com/",
	"https://fyzo.de/assistant/",
	"https://www.gesund.de/app",
	"https://www.glaice.de/",
	"https://gleea.de/",
	"https://www.guidecare.de/",
	"https://www.apodienste.com/",
	"https://www.help-app.de/",
	"https://www.heynanny.com/",
	"https://incontalert.de/",
	"https://home.informme.info/",
	"https://www.kranushealth.com/de/therapien/haeufiger-harndrang",
	"https://www.kranushealth.com/de/therapien/inkontinenz",
}

// curatedURLs is the manually maintained European digital health list.
var curatedURLs = []string{
	// German digital health
	"https://www.ada.com",
	"https://www.doctolib.de",
	"https://www.kaia-health.com",
	"https://www.teleclinic.com",
	"https://www.zavamed.com",
	"https://www.medwing.com",
	"https://www.felmo.de",
	"https://www.viomedo.de",
	"https://www.caresyntax.com",
	"https://www.merantix.com",
	"https://www.contextflow.com",
	"https://www.heartkinetics.com",
	"https://www.samedi.de",
	"https://www.medigene.com",
	"https://www.smartpatient.eu",
	// European digital health
	"https://www.doctolib.fr",
	"https://www.livi.co.uk",
	"https://www.babylon.com",
	"https://www.echo.co.uk",
	"https://www.accurx.com",
	"https://www.zava.com",
	"https://www.medgate.ch",
	"https://www.kry.se",
	"https://www.medadom.com",
	"https://www.qare.fr",
	"https://www.1177.se",
	"https://www.netdoktor.dk",
	"https://www.opensafely.org",
	// AI and analytics
	"https://www.owkin.com",
	"https://www.benevolent.ai",
	"https://www.exscientia.ai",
	"https://www.healx.io",
	"https://www.insilico.com",
	// medtech and devices
	"https://www.siemens-healthineers.com",
	"https://www.philips.com/healthcare",
	"https://www.getinge.com",
	"https://www.elekta.com",
	"https://www.fresenius.com",
	"https://www.braun.com",
	// pharma and biotech
	"https://www.bayer.com",
	"https://www.boehringer-ingelheim.com",
	"https://www.merckgroup.com",
	"https://www.qiagen.com",
	"https://www.roche.com",
	"https://www.novartis.com",
	"https://www.sanofi.com",
	"https://www.gsk.com",
	"https://www.astrazeneca.com",
	// emerging
	"https://www.mindmaze.com",
	"https://www.sophia-genetics.com",
	"https://www.iqvia.com",
	"https://www.veracyte.com",
	"https://www.tempus.com",
	"https://www.flatiron.com",
	"https://www.paige.ai",
	"https://www.path.ai",
	"https://www.viz.ai",
	"https://www.arterys.com",
}

var enterpriseKeywords = []string{
	"siemens-healthineers",
	"philips",
	"bayer",
	"boehringer",
	"merck",
	"qiagen",
	"roche",
	"novartis",
	"sanofi",
	"gsk",
	"astrazeneca",
	"getinge",
	"elekta",
	"fresenius",
	"braun",
	"iqvia",
}

const (
	CategoryVerified   = "Verified Health Tech"
	CategoryEnterprise = "Enterprise/Non-Startup"
	CategoryCurated    = "Curated Health Tech"
)

// Hardcoded returns the source yielding the hand-verified seed list.
func Hardcoded() discovery.Source {
	return discovery.NewSource(NameHardcoded, func(ctx context.Context) ([]discovery.Record, error) {
		records := make([]discovery.Record, 0, len(verifiedURLs))
		for _, u := range verifiedURLs {
			records = append(records, discovery.NewRecord(u, discovery.Provenance{
				Source:     "User Verified",
				Confidence: 10,
				Category:   CategoryVerified,
				Country:    "Germany/Europe",
				Method:     discovery.MethodHardcoded,
			}))
		}
		return records, nil
	})
}

// Curated returns the source yielding the curated list followed by extra.
// Hosts of large incumbents are categorized as enterprise.
func Curated(extra []string) discovery.Source {
	urls := make([]string, 0, len(curatedURLs)+len(extra))
	urls = append(urls, curatedURLs...)
	urls = append(urls, extra...)

	return discovery.NewSource(NameCurated, func(ctx context.Context) ([]discovery.Record, error) {
		records := make([]discovery.Record, 0, len(urls))
		for _, u := range urls {
			category := CategoryCurated
			if discovery.HostMatchesAny(strings.ToLower(u), enterpriseKeywords) {
				category = CategoryEnterprise
			}
			records = append(records, discovery.NewRecord(u, discovery.Provenance{
				Source:     "Curated List",
				Confidence: 8,
				Category:   category,
				Country:    "Europe/International",
				Method:     discovery.MethodManualCuration,
			}))
		}
		return records, nil
	})
}
