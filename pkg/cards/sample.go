package cards

// SampleRecords returns a small batch that exercises the common card
// layouts: plain business cards and a medical card with a CRM chip.
func SampleRecords() []Record {
	return []Record{
		{
			Name:    "João Silva",
			Title:   "Desenvolvedor Full Stack",
			Company: "Tech Solutions",
			Phone:   "(11) 99999-9999",
			Email:   "joao@techsolutions.com",
			Website: "www.techsolutions.com",
		},
		{
			Name:    "Maria Oliveira",
			Title:   "Designer Gráfico",
			Company: "Creative Studio",
			Phone:   "(11) 98888-8888",
			Email:   "maria@creativestudio.com",
			Website: "www.creativestudio.com",
		},
		{
			Name:    "Pedro Costa",
			Title:   "Gerente de Projetos",
			Company: "Inovação Digital",
			Phone:   "(11) 97777-7777",
			Email:   "pedro@inovacaodigital.com",
			Website: "www.inovacaodigital.com",
		},
		{
			Name:         "Dra. Ana Souza",
			Professional: "Cardiologista\nEcocardiografia e Ergometria",
			CRMNumber:    "123456",
			CRMRegion:    "BA",
			Phone:        "(71) 3333-4444",
			Email:        "ana.souza@clinica.com.br",
		},
	}
}
