package tools

import "google.golang.org/genai"

// Declarations returns the function schemas attached to the first
// generation pass. Descriptions are model-facing and in Portuguese to
// match the persona. create_client deliberately declares no phone
// parameter: the caller's identity is injected at dispatch, so the model
// cannot fabricate or leak contact numbers.
func Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        NameGetClient,
			Description: "Busca o cadastro de um cliente pelo identificador.",
			Parameters: objectSchema(map[string]*genai.Schema{
				"id": stringSchema("Identificador do cliente"),
			}, "id"),
		},
		{
			Name:        NameCreateClient,
			Description: "Cadastra a pessoa que está conversando como cliente. Use somente após confirmar o nome com ela.",
			Parameters: objectSchema(map[string]*genai.Schema{
				"nome":        stringSchema("Nome completo do cliente"),
				"email":       stringSchema("E-mail, se informado"),
				"observacoes": stringSchema("Observações relevantes sobre o atendimento"),
			}, "nome"),
		},
		{
			Name:        NameUpdateClient,
			Description: "Atualiza dados cadastrais de um cliente existente.",
			Parameters: objectSchema(map[string]*genai.Schema{
				"id":          stringSchema("Identificador do cliente"),
				"nome":        stringSchema("Novo nome, se mudou"),
				"email":       stringSchema("Novo e-mail, se mudou"),
				"observacoes": stringSchema("Observações a registrar"),
			}, "id"),
		},
		{
			Name:        NameDeleteClient,
			Description: "Remove o cadastro de um cliente. Use apenas com pedido explícito.",
			Parameters: objectSchema(map[string]*genai.Schema{
				"id": stringSchema("Identificador do cliente"),
			}, "id"),
		},
		{
			Name:        NameListProducts,
			Description: "Lista os produtos e serviços disponíveis com preços.",
			Parameters:  objectSchema(nil),
		},
		{
			Name:        NameGetProduct,
			Description: "Busca os detalhes de um produto ou serviço.",
			Parameters: objectSchema(map[string]*genai.Schema{
				"id": stringSchema("Identificador do produto"),
			}, "id"),
		},
		{
			Name:        NameCreateOrder,
			Description: "Abre uma ordem de serviço para um cliente já cadastrado.",
			Parameters: objectSchema(map[string]*genai.Schema{
				"cliente_id": stringSchema("Identificador do cliente"),
				"descricao":  stringSchema("Descrição do serviço solicitado"),
			}, "cliente_id", "descricao"),
		},
		{
			Name:        NameGetOrder,
			Description: "Consulta o andamento de uma ordem de serviço.",
			Parameters: objectSchema(map[string]*genai.Schema{
				"id": stringSchema("Identificador da ordem de serviço"),
			}, "id"),
		},
		{
			Name:        NameListOrders,
			Description: "Lista as ordens de serviço de um cliente.",
			Parameters: objectSchema(map[string]*genai.Schema{
				"cliente_id": stringSchema("Identificador do cliente"),
			}, "cliente_id"),
		},
		{
			Name:        NameCreateQuote,
			Description: "Monta um orçamento com itens do catálogo para um cliente.",
			Parameters: objectSchema(map[string]*genai.Schema{
				"cliente_id": stringSchema("Identificador do cliente"),
				"itens": {
					Type:        genai.TypeArray,
					Description: "Itens do orçamento",
					Items: objectSchema(map[string]*genai.Schema{
						"produto_id": stringSchema("Identificador do produto"),
						"quantidade": {Type: genai.TypeInteger, Description: "Quantidade desejada"},
					}, "produto_id", "quantidade"),
				},
			}, "cliente_id", "itens"),
		},
		{
			Name:        NameGetQuote,
			Description: "Consulta um orçamento existente.",
			Parameters: objectSchema(map[string]*genai.Schema{
				"id": stringSchema("Identificador do orçamento"),
			}, "id"),
		},
		{
			Name:        NameListQuotes,
			Description: "Lista os orçamentos de um cliente.",
			Parameters: objectSchema(map[string]*genai.Schema{
				"cliente_id": stringSchema("Identificador do cliente"),
			}, "cliente_id"),
		},
	}
}

func objectSchema(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   required,
	}
}

func stringSchema(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}
